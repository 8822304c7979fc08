package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnauthenticated indicates a missing or rejected credential. It is never
// shown as an inline error; callers route the user to the login flow.
var ErrUnauthenticated = errors.New("authentication required")

// StatusError is a non-2xx response from the service, carrying the server's
// detail message when one was provided.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("server returned %d", e.Code)
}

// ErrInvalidResponse indicates the service returned a body that does not
// conform to the endpoint's response schema.
type ErrInvalidResponse struct {
	Endpoint string
	Content  json.RawMessage
	Err      error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrUnavailable indicates the service could not be reached at all.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("service unavailable: %v", e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }
