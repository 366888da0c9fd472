// Package apperr classifies failures surfaced to the user.
//
// Every network error is caught at the call site nearest the user action and turned into an
// inline message; nothing propagates to a global handler.
package apperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindAuthenticationRequired: unauthenticated access to a protected route or endpoint.
	KindAuthenticationRequired
	// KindAuthorizationDenied: wrong role; redirected without a message.
	KindAuthorizationDenied
	// KindNetworkFailure: the request never produced a usable response.
	KindNetworkFailure
	// KindValidationFailure: the backend (or a client-side check) rejected the submission.
	KindValidationFailure
	// KindCancelledRequest: aborted by navigation or unmount; never shown.
	KindCancelledRequest
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "AuthenticationRequired"
	case KindAuthorizationDenied:
		return "AuthorizationDenied"
	case KindNetworkFailure:
		return "NetworkFailure"
	case KindValidationFailure:
		return "ValidationFailure"
	case KindCancelledRequest:
		return "CancelledRequest"
	default:
		return "Unknown"
	}
}

// Error is an application-layer error carrying the inline message to show.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a client-side validation failure.
func Validation(message string) *Error {
	return &Error{
		Kind:    KindValidationFailure,
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// Classify maps any error onto the taxonomy.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if ae := (*Error)(nil); errors.As(err, &ae) && ae.Kind != KindUnknown {
		return ae.Kind
	}
	switch {
	case errors.Is(err, context.Canceled):
		return KindCancelledRequest
	case errors.Is(err, backend.ErrUnauthenticated):
		return KindAuthenticationRequired
	case errors.Is(err, backend.ErrForbidden):
		return KindAuthorizationDenied
	}
	if re := (*backend.ResponseError)(nil); errors.As(err, &re) && re.Status < 500 {
		return KindValidationFailure
	}
	return KindNetworkFailure
}

// FromBackend wraps a backend error with the message to show, taken from the response body
// when the backend supplied one and from fallback otherwise.
func FromBackend(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	if ae := (*Error)(nil); errors.As(err, &ae) {
		return ae
	}
	out := &Error{Kind: Classify(err), Message: fallback, Err: err}
	if re := (*backend.ResponseError)(nil); errors.As(err, &re) {
		out.Status = re.Status
		if re.Message != "" {
			out.Message = re.Message
		}
	}
	return out
}

// Message is the inline text for err: the backend's message when there is one, else fallback.
// Cancelled requests yield "".
func Message(err error, fallback string) string {
	if err == nil || Classify(err) == KindCancelledRequest {
		return ""
	}
	return FromBackend(err, fallback).Message
}

// IsCancelled reports whether err came from an aborted request.
func IsCancelled(err error) bool {
	return Classify(err) == KindCancelledRequest
}
