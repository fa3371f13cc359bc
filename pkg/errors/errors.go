package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType classifies an error for presentation and retry decisions.
type ErrorType string

const (
	// Validation errors are detected locally and never reach the network.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// NotFound and NoPath are domain-negative answers: the transport
	// succeeded but the server's answer was "no such thing" / "no path".
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	ErrorTypeNoPath   ErrorType = "NO_PATH"

	ErrorTypeConflict ErrorType = "CONFLICT"

	// Transport and storage failures are generic retryable conditions.
	ErrorTypeNetwork ErrorType = "NETWORK"
	ErrorTypeStorage ErrorType = "STORAGE"
	ErrorTypeTimeout ErrorType = "TIMEOUT"

	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError is the error value exchanged across component boundaries.
// Expected failure modes resolve to an AppError; only programming errors
// propagate as anything else.
type AppError struct {
	Type       ErrorType
	Message    string
	Cause      error
	StackTrace string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace.
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error for the named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StackTrace: captureStackTrace(),
	}
}

// NewNoPathError creates an error for a route calculation that succeeded at
// the transport level but found no path.
func NewNoPathError(message string) *AppError {
	if message == "" {
		message = "no path found between the selected locations"
	}
	return &AppError{
		Type:       ErrorTypeNoPath,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		Cause:      err,
		StackTrace: captureStackTrace(),
	}
}

// NewStorageError creates a storage error for a failed I/O operation.
func NewStorageError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Message:    fmt.Sprintf("storage operation '%s' failed", operation),
		Cause:      err,
		StackTrace: captureStackTrace(),
	}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(operation string) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    fmt.Sprintf("operation '%s' timed out", operation),
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StackTrace: captureStackTrace(),
	}
}

// GetAppError extracts an AppError from an error chain.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type.
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsNoPath checks if an error is a no-path result.
func IsNoPath(err error) bool {
	return IsType(err, ErrorTypeNoPath)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool {
	return IsType(err, ErrorTypeNetwork)
}

// IsStorage checks if an error is a storage error.
func IsStorage(err error) bool {
	return IsType(err, ErrorTypeStorage)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to the message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
