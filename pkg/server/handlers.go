package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/holon-run/fresheyes/pkg/credential"
	"github.com/holon-run/fresheyes/pkg/mirror"
)

// processResponse is the success body of /process_pull_request.
type processResponse struct {
	PRURL   string `json:"pr_url"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "Hello world!")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleProcessPullRequest(w http.ResponseWriter, r *http.Request, token string) {
	var req mirror.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := s.service.WithCredentials(credential.Static(token)).Mirror(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Errorw("mirror failed", "request", req.String(), "error", err)
		} else {
			s.logger.Warnw("mirror rejected", "request", req.String(), "status", status, "error", err)
		}
		writeError(w, status, err.Error())
		return
	}

	s.logger.Infow("mirror completed",
		"request", req.String(),
		"pr_url", result.PRURL,
		"already_existed", result.AlreadyExisted,
	)
	writeJSON(w, http.StatusOK, processResponse{PRURL: result.PRURL, Message: result.Message})
}

// statusFor maps a mirror failure to the response status.
func statusFor(err error) int {
	var opErr *mirror.OpError
	if !errors.As(err, &opErr) {
		return http.StatusInternalServerError
	}
	if opErr.Code == http.StatusUnauthorized {
		return http.StatusUnauthorized
	}

	switch opErr.Kind {
	case mirror.KindMissingField:
		return http.StatusBadRequest
	case mirror.KindNotFound:
		return http.StatusNotFound
	case mirror.KindStatusCode, mirror.KindTransport, mirror.KindForkFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
