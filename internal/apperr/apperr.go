// Package apperr defines the error taxonomy shared by storage and handlers.
package apperr

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation   Code = "VALIDATION"
	CodeBadRequest   Code = "BAD_REQUEST"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInternal     Code = "INTERNAL"
)

// HTTPStatus maps a code to the status written to clients.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeConflict:
		// Clients match duplicate registrations on 400.
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Issue describes one invalid field of a request body.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// Error is the application error type.
type Error struct {
	Code    Code
	Message string  // Safe to show to clients, except for CodeInternal
	Issues  []Issue // Only set for CodeValidation
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Validation builds a validation error carrying per-field issues.
func Validation(message string, issues []Issue) *Error {
	return &Error{Code: CodeValidation, Message: message, Issues: issues}
}

// Sentinels for errors.Is comparisons by code.
var (
	ErrNotFound = New(CodeNotFound, "not found")
	ErrConflict = New(CodeConflict, "conflict")
)
