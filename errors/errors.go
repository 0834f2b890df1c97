// Package errors provides unified error handling for authd.
// It implements structured error types with error codes and HTTP status
// mapping. User-facing messages stay generic; causes and details are kept
// for internal observability only.
package errors

import (
	"fmt"
	"net/http"
)

// FieldError is one (code, description) pair from a structured rejection,
// such as a password-policy violation or a uniqueness conflict. Pairs are
// passed through to the caller verbatim and order-insensitive.
type FieldError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Fields carries per-field (code, description) pairs, if any.
	Fields []FieldError `json:"errors,omitempty"`
	// Cause is the underlying error. Never serialized to clients.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithFields appends field errors and returns the receiver.
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	e.Fields = append(e.Fields, fields...)
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Domain Error Constructors ---

// ValidationFailed creates an AppError for a structured policy rejection.
// The field errors are surfaced to the caller verbatim.
func ValidationFailed(message string, fields []FieldError) *AppError {
	return &AppError{
		Code: ErrCodeValidationFailed, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Fields: fields,
	}
}

// DuplicateUser creates an AppError for a username/email uniqueness conflict.
func DuplicateUser(message string, fields []FieldError) *AppError {
	return &AppError{
		Code: ErrCodeDuplicateUser, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Fields: fields,
	}
}

// AuthenticationFailed creates an AppError for a failed credential check.
// The message must not reveal whether the username exists.
func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Code: ErrCodeAuthenticationFailed, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// TokenInvalid creates an AppError for a rejected bearer token. The precise
// reason stays in Cause for logging and is not exposed to the caller.
func TokenInvalid(cause error) *AppError {
	return &AppError{
		Code: ErrCodeTokenInvalid, Message: "Invalid token",
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
		Cause: cause,
	}
}

// Unauthorized creates an AppError for a request without usable credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required"
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized, Retryable: false,
	}
}

// UpstreamUnavailable creates an AppError for a user-store I/O failure.
func UpstreamUnavailable(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUpstreamUnavailable, Message: "Service temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Cause: cause,
	}
}

// Internal creates an AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Cause: cause,
	}
}
