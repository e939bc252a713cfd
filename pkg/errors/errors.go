// Package errors provides structured error types shared by the CLI and the
// HTTP API.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidRequest, "n = %d out of range", n)
//	if errors.Is(err, errors.ErrCodeInvalidRequest) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStore, origErr, "loading session %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidRequest Code = "INVALID_REQUEST"
	ErrCodeInvalidMode    Code = "INVALID_MODE"
	ErrCodeInvalidOrder   Code = "INVALID_ORDER"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeLimitExceeded  Code = "LIMIT_EXCEEDED"

	// Session errors
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  Code = "SESSION_EXPIRED"

	// Backend errors
	ErrCodeStore  Code = "STORE_ERROR"
	ErrCodeRender Code = "RENDER_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
// Unknown codes (including plain errors) map to 500.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeInvalidMode, ErrCodeInvalidOrder, ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case ErrCodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeSessionExpired:
		return http.StatusGone
	case ErrCodeStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
