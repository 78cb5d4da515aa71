// Package apperr defines the error kinds shared by the validation, service
// and transport layers. Each kind is a sentinel that callers match with
// errors.Is; the concrete *Error carries the human readable message that
// is returned to the client.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input such as a bad time string or a
	// missing required field. Handlers translate it into HTTP 400.
	ErrValidation = errors.New("validation error")

	// ErrReference marks a mandatory foreign key that does not resolve.
	// Handlers translate it into HTTP 400.
	ErrReference = errors.New("reference error")

	// ErrNotFound marks a lookup or delete of an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation such as a duplicate username.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks bad credentials or a missing/unknown bearer token.
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a classified error with a client facing message.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap exposes the kind so errors.Is(err, ErrNotFound) works.
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the sentinel this error was classified as.
func (e *Error) Kind() error { return e.kind }

func newf(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error { return newf(ErrValidation, format, args...) }
func Reference(format string, args ...any) error  { return newf(ErrReference, format, args...) }
func NotFound(format string, args ...any) error   { return newf(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error   { return newf(ErrConflict, format, args...) }
func Unauthorized(format string, args ...any) error {
	return newf(ErrUnauthorized, format, args...)
}

// Message returns the client facing message of a classified error, or
// fallback when err carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return fallback
}
