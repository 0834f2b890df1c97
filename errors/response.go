package errors

import (
	stderrors "errors"
)

// Response is the JSON body returned to clients for a failed request.
// The shape matches the public API contract: a generic message plus an
// optional list of (code, description) pairs.
type Response struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ToResponse converts an AppError to its client-facing JSON body.
func (e *AppError) ToResponse() Response {
	return Response{
		Message: e.Message,
		Errors:  e.Fields,
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
