// Package errors provides the application error taxonomy: coded errors,
// classification, and HTTP status mapping. Upstream error text never
// reaches API responses; only the code and a safe message do.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents an application error code.
type Code string

const (
	// Validation errors
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeMissingField Code = "MISSING_FIELD"
	CodeTooLong      Code = "TOO_LONG"

	// Resource errors
	CodeNotFound Code = "NOT_FOUND"

	// Throttling
	CodeRateLimited Code = "RATE_LIMITED"

	// External service errors
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeCircuitOpen        Code = "CIRCUIT_OPEN"
	CodeTimeout            Code = "TIMEOUT"

	// Internal errors
	CodeInternal Code = "INTERNAL_ERROR"
	CodeDatabase Code = "DATABASE_ERROR"
	CodeConfig   Code = "CONFIG_ERROR"
)

// Kind classifies an error for handling decisions.
type Kind int

const (
	KindUnknown Kind = iota
	// KindUser indicates a user-caused error (bad input, etc.).
	KindUser
	// KindSystem indicates a system error (database down, bad config).
	KindSystem
	// KindTransient indicates a temporary error that may succeed on retry.
	KindTransient
)

// Error is the base application error type.
type Error struct {
	// Code is the machine-readable error code.
	Code Code `json:"code"`
	// Message is the human-readable, safe-to-surface message.
	Message string `json:"message"`
	// Kind classifies the error.
	Kind Kind `json:"-"`
	// Op is the operation being performed (e.g., "chat.HandleTurn").
	Op string `json:"-"`
	// Err is the underlying error, for logs only.
	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus returns the appropriate HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeInvalidInput, CodeMissingField, CodeTooLong:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeServiceUnavailable, CodeCircuitOpen:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsRetriable returns true if the error may succeed on retry.
func (e *Error) IsRetriable() bool {
	return e.Kind == KindTransient
}

// ErrorResponse represents the JSON body for API errors.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error details in API responses.
type ErrorDetail struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ToResponse converts an Error to an API response body.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: e.Code, Message: e.Message}}
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: kindForCode(code)}
}

// Wrap wraps an existing error with a code and safe message.
func Wrap(err error, op string, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Kind: kindForCode(code), Op: op, Err: err}
}

func kindForCode(code Code) Kind {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeMissingField, CodeTooLong, CodeNotFound:
		return KindUser
	case CodeRateLimited, CodeTimeout, CodeCircuitOpen, CodeServiceUnavailable:
		return KindTransient
	default:
		return KindSystem
	}
}

// Sentinel errors for common cases.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = New(CodeNotFound, "resource not found")

	// ErrRateLimited indicates too many requests from one client.
	ErrRateLimited = New(CodeRateLimited, "rate limit exceeded")

	// ErrServiceUnavailable hides every upstream failure behind one
	// message; configuration details must never leak through it.
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service temporarily unavailable")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = New(CodeTimeout, "operation timed out")
)

// NotFound creates a not found error for a specific resource.
func NotFound(resource string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Kind:    KindUser,
	}
}

// ValidationFailed creates a validation error with details.
func ValidationFailed(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Kind: KindUser}
}

// MissingField creates a missing field validation error.
func MissingField(field string) *Error {
	return &Error{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("missing required field: %s", field),
		Kind:    KindUser,
	}
}

// DatabaseError creates a database error with the underlying cause.
func DatabaseError(op string, err error) *Error {
	return &Error{
		Code:    CodeDatabase,
		Message: "database operation failed",
		Kind:    KindSystem,
		Op:      op,
		Err:     err,
	}
}

// ServiceUnavailable wraps an upstream failure without exposing it.
func ServiceUnavailable(op string, err error) *Error {
	return &Error{
		Code:    CodeServiceUnavailable,
		Message: "service temporarily unavailable",
		Kind:    KindTransient,
		Op:      op,
		Err:     err,
	}
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeNotFound
}

// IsRateLimited reports whether err is a rate-limit error.
func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeRateLimited
}

// AsError extracts the application error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the application code of err, or CodeInternal for
// errors outside the taxonomy.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
