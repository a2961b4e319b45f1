package server

import (
	"net/http"
	"strings"
)

const unauthorizedMessage = "Unauthorized: Bearer token required"

// withBearer rejects requests without an "Authorization: Bearer <token>"
// header and hands the token to next.
func (s *Server) withBearer(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		next(w, r, token)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
