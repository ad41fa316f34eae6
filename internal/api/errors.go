package api

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when every candidate shape for an operation has
// been exhausted without finding one the backend implements.
var ErrUnsupported = errors.New("operation not supported by this backend")

// ErrUnauthorized is returned when the backend rejects the bearer token. The
// caller should clear the local session and force re-authentication.
var ErrUnauthorized = errors.New("session invalid or expired")

// ValidationError reports bad local input. It is raised before any network
// call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConflictError reports a request the server understood but rejected as a
// duplicate or invalid state. It is surfaced immediately and never retried.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail == "" {
		return "server rejected request as a conflict"
	}
	return e.Detail
}

// RequestError reports any other semantic rejection (validated request, server
// said no). The shape that produced it is considered working.
type RequestError struct {
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server rejected request (status %d)", e.Status)
	}
	return fmt.Sprintf("server rejected request (status %d): %s", e.Status, e.Detail)
}

// TransientError reports a network failure, timeout, or malformed response.
// The client retries these internally before giving up.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient failure: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// PersistenceError is raised after the retry budget for transient failures is
// exhausted. For writes it triggers rollback of the optimistic edit.
type PersistenceError struct {
	Op  Operation
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed after retries: %v", e.Op, e.Err)
}
func (e *PersistenceError) Unwrap() error { return e.Err }
