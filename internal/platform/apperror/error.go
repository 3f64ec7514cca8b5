// Package apperror defines the typed failures a request can end with and the
// HTTP status each one maps to.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an Error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_failed"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// internalMessage is the only message an Internal error ever shows to a caller.
const internalMessage = "Internal Server Error"

// Error is a failure that carries its own response status and message.
type Error struct {
	Kind    Kind
	Message string
	// Details lists every violated rule of a ValidationFailed error.
	Details []string
	// Cause is the underlying error of an Internal error. It is never sent to
	// the caller except as a development-mode trace.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Trace returns the cause formatted with its stack, or an empty string.
func (e *Error) Trace() string {
	if e.Cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.Cause)
}

// NotFound creates a NotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a ValidationFailed error with the list of violations.
func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Unauthorized creates an Unauthorized error.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Internal wraps err as an Internal error, recording a stack trace if err has none.
func Internal(err error) *Error {
	if err == nil {
		err = pkgerrors.New("unknown error")
	}
	if _, ok := err.(interface{ StackTrace() pkgerrors.StackTrace }); !ok {
		err = pkgerrors.WithStack(err)
	}
	return &Error{Kind: KindInternal, Message: internalMessage, Cause: err}
}

// FromPanic converts a recovered panic value into an Internal error.
func FromPanic(rvr any) *Error {
	if err, ok := rvr.(error); ok {
		return Internal(pkgerrors.Wrap(err, "panic"))
	}
	return Internal(pkgerrors.Errorf("panic: %v", rvr))
}

// From returns err as an *Error. Errors that are not typed become Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
