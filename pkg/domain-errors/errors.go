// Package domainerrors carries coded domain errors across layer boundaries.
// Services translate sentinel/infrastructure errors into these; the HTTP layer
// translates these into status codes. Codes double as the wire error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the class of a domain error.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error with an operator-facing description and an
// optional wrapped cause.
type Error struct {
	Code        Code
	Description string
	cause       error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another domain error by code and description, so callers can
// compare against freshly constructed values with errors.Is.
func (e *Error) Is(target error) bool {
	de, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == de.Code && e.Description == de.Description
}

// New creates a domain error with the given code and description.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Wrap attaches a code and description to an underlying error, preserving it
// for errors.Is/As chains.
func Wrap(err error, code Code, description string) *Error {
	return &Error{Code: code, Description: description, cause: err}
}

// HasCode reports whether err (or anything it wraps) is a domain error with
// the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that never passed through a domain boundary.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
