// Package apperr defines the error kinds shared by the marketplace services.
//
// Every business rejection is an *Error whose Kind is one of the exported
// sentinels, so callers branch with errors.Is and read context with Fields.
// Anything that is not an *Error is an internal fault.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or semantically invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a state or race violation. Callers may retry after re-reading state.
	ErrConflict = errors.New("conflict")
	// ErrForbidden marks a caller without rights over the resource.
	ErrForbidden = errors.New("forbidden")
)

// Error is a classified business error.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// With attaches a context field and returns the same error.
func (e *Error) With(key string, value any) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]any, 1)
	}
	e.Fields[key] = value
	return e
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(ErrConflict, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(ErrForbidden, format, args...)
}

// As extracts the classified error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Fields returns the context fields of a classified error, or nil.
func Fields(err error) map[string]any {
	if e, ok := As(err); ok {
		return e.Fields
	}
	return nil
}

// IsClassified reports whether err carries one of the four business kinds.
func IsClassified(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrForbidden)
}
