package mirror

import (
	"context"
	"errors"
	"fmt"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

// Kind classifies mirror failures.
type Kind int

const (
	// KindTransport means GitHub could not be reached.
	KindTransport Kind = iota + 1
	// KindStatusCode is a response GitHub sent but the operation could not
	// use: a non-2xx status not otherwise classified, or an undecodable body.
	KindStatusCode
	// KindNotFound is a 404 on the source pull request.
	KindNotFound
	// KindMissingField is a precondition missing before any remote call.
	KindMissingField
	// KindForkFailed is any failure of the fork call.
	KindForkFailed
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatusCode:
		return "status_code"
	case KindNotFound:
		return "not_found"
	case KindMissingField:
		return "missing_field"
	case KindForkFailed:
		return "fork_failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrTransport    = &OpError{Kind: KindTransport}
	ErrStatusCode   = &OpError{Kind: KindStatusCode}
	ErrNotFound     = &OpError{Kind: KindNotFound}
	ErrMissingField = &OpError{Kind: KindMissingField}
	ErrForkFailed   = &OpError{Kind: KindForkFailed}
)

// OpError is a classified failure of a mirror operation.
type OpError struct {
	Kind Kind
	// Code is the HTTP status when one was received, otherwise 0
	Code int
	// Message replaces the cause's text when set
	Message string
	Err     error
}

func (e *OpError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Is matches any *OpError of the same Kind.
func (e *OpError) Is(target error) bool {
	t, ok := target.(*OpError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *OpError in err's chain.
func KindOf(err error) (Kind, bool) {
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind, true
	}
	return 0, false
}

// StepError reports the workflow step that failed.
type StepError struct {
	// State is the last state reached before the failure
	State State
	// Step names the action that failed, e.g. "create base branch"
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func missingField(message string) *OpError {
	return &OpError{Kind: KindMissingField, Message: message}
}

// classify maps a RemoteClient error onto the mirror taxonomy.
func classify(err error) *OpError {
	if err == nil {
		return nil
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr
	}
	if code := hghelper.StatusCode(err); code != 0 {
		return &OpError{Kind: KindStatusCode, Code: code, Err: err}
	}
	if hghelper.IsTransportError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &OpError{Kind: KindTransport, Err: err}
	}
	return &OpError{Kind: KindStatusCode, Err: err}
}
