package remote

import (
	"errors"
	"fmt"
)

// TransportError means the authority could not be reached at all: no
// connectivity, DNS failure, timeout. It is recoverable — queued work stays
// queued and is retried by replay, with no user-visible error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: network request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RequestError means the authority was reached and rejected the request.
// It is surfaced to the user with an actionable message; the work remains
// queued for manual retry.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote rejected (%d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: remote rejected: %s", e.Op, e.Message)
}

// IsTransport reports whether err indicates the authority was unreachable
// rather than rejecting the request.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
