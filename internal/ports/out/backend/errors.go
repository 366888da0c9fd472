package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates the ambient credential is missing, expired or rejected.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the authenticated user lacks the role for the endpoint.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// ResponseError is a non-2xx response. Message comes from the response body's `message`
// field when present.
type ResponseError struct {
	Status  int
	Message string
}

func (e *ResponseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// Unwrap maps well-known statuses onto the package sentinels so callers can use errors.Is.
func (e *ResponseError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthenticated
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	default:
		return nil
	}
}
