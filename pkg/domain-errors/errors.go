// Package domainerrors defines the error taxonomy shared by services,
// stores, and transport. Every error carries a stable machine-readable
// code that maps to exactly one HTTP status, and a message safe to return
// to clients: messages are generic by construction and never embed
// submitted values (emails, passwords, identifiers).
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies an error class. Codes are part of the API contract;
// renaming one is a breaking change.
type Code string

const (
	// Auth errors
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"

	// Validation errors
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeMissingField Code = "MISSING_FIELD"

	// Resource errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeConflict      Code = "CONFLICT"

	// Server errors
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeDatabase    Code = "DATABASE_ERROR"
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
)

var httpStatus = map[Code]int{
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeTokenExpired:       http.StatusUnauthorized,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeForbidden:          http.StatusForbidden,
	CodeValidation:         http.StatusBadRequest,
	CodeMissingField:       http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeAlreadyExists:      http.StatusConflict,
	CodeConflict:           http.StatusConflict,
	CodeInternal:           http.StatusInternalServerError,
	CodeDatabase:           http.StatusInternalServerError,
	CodeUnavailable:        http.StatusServiceUnavailable,
}

// HTTPStatus returns the HTTP status for a code. Unknown codes map to 500
// so a missing table entry can never downgrade a failure into a success.
func HTTPStatus(code Code) int {
	if status, ok := httpStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is the concrete domain error. The wrapped cause, if any, is for
// logs only and is never serialized toward clients.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a domain error with a stable code and a client-safe message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a cause for diagnostics while keeping the outward-facing
// code and message generic.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetails adds structured, client-visible details (field names, not
// field values).
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// HasCode reports whether err is (or wraps) a domain error with the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for
// anything that is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err. Non-domain errors
// collapse to a generic message so internals never leak.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "An unexpected error occurred. Please try again later"
}

// Common constructors keep wording consistent across call sites.

func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "Invalid email or password")
}

func TokenExpired() *Error {
	return New(CodeTokenExpired, "Your session has expired. Please login again")
}

func Unauthorized() *Error {
	return New(CodeUnauthorized, "Authentication required")
}

func Forbidden() *Error {
	return New(CodeForbidden, "You do not have permission to perform this action")
}

func MissingField(field string) *Error {
	return New(CodeMissingField, "Required field missing: "+field).
		WithDetails(map[string]any{"field": field})
}

func Validation(field, message string) *Error {
	return New(CodeValidation, "Validation failed for field: "+field).
		WithDetails(map[string]any{"field": field, "message": message})
}

func NotFound(resource string) *Error {
	return New(CodeNotFound, resource+" not found").
		WithDetails(map[string]any{"resource": resource})
}

func AlreadyExists(resource string) *Error {
	return New(CodeAlreadyExists, resource+" already exists").
		WithDetails(map[string]any{"resource": resource})
}

func Internal() *Error {
	return New(CodeInternal, "An unexpected error occurred. Please try again later")
}

func Database(cause error) *Error {
	return Wrap(CodeDatabase, "A database error occurred. Please try again later", cause)
}
