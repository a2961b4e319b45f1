package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

const stubToken = "stub-token"

// githubStub serves the GitHub endpoints a mirror run touches. Pull requests
// 79 and 80 exist on any repository; 80 also carries one review comment.
type githubStub struct {
	mu     sync.Mutex
	refs   map[string]bool
	pulls  map[string]int
	nextPR int
}

func newGitHubStub() *httptest.Server {
	s := &githubStub{refs: map[string]bool{}, pulls: map[string]int{}, nextPR: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/{owner}/{repo}/forks", s.fork)
	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls/{number}", s.pull)
	mux.HandleFunc("GET /repos/{owner}/{repo}/pulls/{number}/comments", s.comments)
	mux.HandleFunc("POST /repos/{owner}/{repo}/git/refs", s.createRef)
	mux.HandleFunc("POST /repos/{owner}/{repo}/pulls", s.createPull)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+stubToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
			return
		}
		mux.ServeHTTP(w, r)
	}))
}

func (s *githubStub) fork(w http.ResponseWriter, r *http.Request) {
	repo := r.PathValue("repo")
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"name":     repo,
		"owner":    map[string]string{"login": "fresheyes-bot"},
		"html_url": "https://github.com/fresheyes-bot/" + repo,
		"fork":     true,
	})
}

func (s *githubStub) pull(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	number, _ := strconv.Atoi(r.PathValue("number"))
	if number != 79 && number != 80 {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"number": number,
		"title":  fmt.Sprintf("Change #%d", number),
		"body":   "Stub pull request",
		"head": map[string]interface{}{
			"ref":  "feature",
			"sha":  "8a9cad44a57f1e0057c127ced5078d7e722b9cc8",
			"user": map[string]string{"login": "alice"},
		},
		"base": map[string]interface{}{
			"ref":  "master",
			"sha":  "ccd7fe8de52bbc9210b444838eefb7ddbc880457",
			"user": map[string]string{"login": owner},
		},
	})
}

func (s *githubStub) comments(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("number") != "80" {
		writeJSON(w, http.StatusOK, []interface{}{})
		return
	}
	writeJSON(w, http.StatusOK, []interface{}{
		map[string]interface{}{
			"id":   1,
			"body": "Needs a test",
			"path": "src/main.cpp",
			"user": map[string]string{"login": "bob"},
		},
	})
}

func (s *githubStub) createRef(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Ref string `json:"ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	key := r.PathValue("owner") + "/" + r.PathValue("repo") + ":" + body.Ref
	s.mu.Lock()
	exists := s.refs[key]
	s.refs[key] = true
	s.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Reference already exists"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"ref":    body.Ref,
		"object": map[string]string{"type": "commit"},
	})
}

func (s *githubStub) createPull(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Head string `json:"head"`
		Base string `json:"base"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	owner, repo := r.PathValue("owner"), r.PathValue("repo")
	key := owner + "/" + repo + ":" + body.Base + "<-->" + body.Head
	s.mu.Lock()
	_, exists := s.pulls[key]
	number := s.nextPR
	if !exists {
		s.pulls[key] = number
		s.nextPR++
	}
	s.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"message": "Validation Failed",
			"errors":  []map[string]string{{"resource": "PullRequest", "code": "custom", "message": "A pull request already exists"}},
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"number":   number,
		"html_url": fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, number),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
