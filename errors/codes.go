package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeValidationFailed indicates malformed input or a policy rejection.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Account errors
const (
	// ErrCodeDuplicateUser indicates the username or email is already taken.
	ErrCodeDuplicateUser ErrorCode = "DUPLICATE_USER"
)

// Authentication errors
const (
	// ErrCodeAuthenticationFailed indicates a bad username or password.
	// Deliberately undifferentiated so callers can't enumerate accounts.
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	// ErrCodeTokenInvalid indicates a malformed, mis-signed, mis-addressed
	// or expired bearer token.
	ErrCodeTokenInvalid ErrorCode = "TOKEN_INVALID"
	// ErrCodeUnauthorized indicates the request carries no usable credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Infrastructure errors
const (
	// ErrCodeUpstreamUnavailable indicates the user store failed.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstreamUnavailable: true,
}

// IsRetryableCode reports whether the code represents a transient condition.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
