package errors

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	// ErrorTypeValidation covers missing, undecodable or out-of-bounds
	// source images. Always surfaced; generation does not proceed.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeEncodingDegraded marks the non-fatal fallback to
	// placeholder marker content. Logged, never raised to callers.
	ErrorTypeEncodingDegraded ErrorType = "encoding_degraded"
	// ErrorTypeCacheIO covers cache read/write failures, which are
	// logged and treated as misses.
	ErrorTypeCacheIO ErrorType = "cache_io"
	// ErrorTypeNotFound is returned when a named preset does not exist.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeProcessing covers other internal processing failures.
	ErrorTypeProcessing ErrorType = "processing"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// NewEncodingDegradedError creates the internal marker for placeholder fallback
func NewEncodingDegradedError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeEncodingDegraded, Message: message, Cause: cause}
}

// NewCacheIOError creates a new cache IO error
func NewCacheIOError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeCacheIO, Message: message, Cause: cause}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message, Cause: cause}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{Type: ErrorTypeProcessing, Message: message, Cause: cause}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}
