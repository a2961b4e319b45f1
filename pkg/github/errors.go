package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/google/go-github/v68/github"
)

// APIError represents a non-2xx GitHub API response
type APIError struct {
	StatusCode int
	Message    string
	Errors     []APIErrorDetail `json:"errors,omitempty"`
}

// APIErrorDetail represents individual error details from GitHub
type APIErrorDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Error returns the error message
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("GitHub API error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GitHub API error (status %d)", e.StatusCode)
}

// TransportError reports a request that never produced an HTTP response:
// DNS, TLS, timeouts and cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Method == "" && e.URL == "" {
		return fmt.Sprintf("GitHub request failed: %v", e.Err)
	}
	return fmt.Sprintf("GitHub request %s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an *APIError
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFoundError returns true if the error is a not found error
func IsNotFoundError(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnprocessableError returns true for 422 responses, which GitHub uses for
// "already exists" conflicts on refs and pull requests
func IsUnprocessableError(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

// IsAuthenticationError returns true if the error is an authentication error
func IsAuthenticationError(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// IsTransportError returns true if the request failed before a response was received
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// parseErrorResponse parses an error response from GitHub
func parseErrorResponse(statusCode int, body []byte) *APIError {
	var apiErr APIError
	apiErr.StatusCode = statusCode

	var githubErr struct {
		Message string           `json:"message"`
		Errors  []APIErrorDetail `json:"errors"`
	}
	if err := json.Unmarshal(body, &githubErr); err == nil {
		apiErr.Message = githubErr.Message
		apiErr.Errors = githubErr.Errors
	} else {
		apiErr.Message = string(body)
	}

	return &apiErr
}

// classifyError maps go-github errors onto APIError and TransportError so
// callers see one error vocabulary regardless of which request path was used.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		apiErr := &APIError{
			StatusCode: errResp.Response.StatusCode,
			Message:    errResp.Message,
		}
		for _, e := range errResp.Errors {
			apiErr.Errors = append(apiErr.Errors, APIErrorDetail{
				Resource: e.Resource,
				Field:    e.Field,
				Code:     e.Code,
				Message:  e.Message,
			})
		}
		return apiErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &APIError{StatusCode: rateErr.Response.StatusCode, Message: rateErr.Message}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return &APIError{StatusCode: abuseErr.Response.StatusCode, Message: abuseErr.Message}
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return err
	}

	if isNetworkError(err) {
		return &TransportError{Err: err}
	}

	// A 2xx whose body could not be decoded, or any other failure after a
	// response arrived.
	return fmt.Errorf("unexpected GitHub response: %w", err)
}

// isNetworkError reports whether err means the request never got a response.
func isNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
