// Package apperrors defines structured application error types,
// allowing for a clear distinction between error classes (configuration,
// boundary shape, foreign kernel failures) and for carrying the underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// All error types support errors.Is() against the package sentinels and
// errors.As() against their concrete type.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates implementations disagree beyond the tolerance.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorShape    = 5   // Indicates a buffer or sequence length mismatch.
	ExitErrorForeign  = 6   // Indicates a foreign kernel returned an invalid result.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// Sentinel errors for the harness error taxonomy. Concrete error types in this
// package match them through errors.Is.
var (
	// ErrShapeMismatch reports a length mismatch at a codec or validation boundary.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrForeignCallFailure reports a foreign kernel that returned an invalid result.
	ErrForeignCallFailure = errors.New("foreign call failure")
	// ErrInvalidConfiguration reports an unusable run configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the run cannot proceed due to incorrect input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// Is reports whether target is ErrInvalidConfiguration.
func (e ConfigError) Is(target error) bool { return target == ErrInvalidConfiguration }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ShapeMismatchError is returned when a buffer or sequence does not have the
// length an operation requires. It is always a caller logic defect and is
// never retried.
type ShapeMismatchError struct {
	// Op names the operation that detected the mismatch (e.g. "decode").
	Op string
	// Want is the required length.
	Want int
	// Got is the length that was supplied.
	Got int
}

// Error returns a description of the mismatch.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: want length %d, got %d", e.Op, e.Want, e.Got)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }

// NewShapeMismatchError creates a ShapeMismatchError.
//
// Parameters:
//   - op: The operation that detected the mismatch.
//   - want: The required length.
//   - got: The supplied length.
//
// Returns:
//   - error: A new *ShapeMismatchError.
func NewShapeMismatchError(op string, want, got int) error {
	return &ShapeMismatchError{Op: op, Want: want, Got: got}
}

// ForeignCallError is returned when a foreign kernel returns a nil result
// pointer. The run is aborted, never retried.
type ForeignCallError struct {
	// Kernel is the label of the failing kernel.
	Kernel string
	// Count is the logical element count passed to the kernel.
	Count int
}

// Error returns a description of the failed call.
func (e *ForeignCallError) Error() string {
	return fmt.Sprintf("foreign kernel %q returned no result for %d elements", e.Kernel, e.Count)
}

// Is reports whether target is ErrForeignCallFailure.
func (e *ForeignCallError) Is(target error) bool { return target == ErrForeignCallFailure }

// NewForeignCallError creates a ForeignCallError.
func NewForeignCallError(kernel string, count int) error {
	return &ForeignCallError{Kernel: kernel, Count: count}
}

// RunError encapsulates a failure of a benchmark run while preserving the
// original cause, together with the implementation and size that triggered it.
type RunError struct {
	// Implementation is the label of the implementation that failed.
	Implementation string
	// Size is the input length being processed.
	Size int
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message including the failing implementation and size.
func (e RunError) Error() string {
	return fmt.Sprintf("%s at size %d: %v", e.Implementation, e.Size, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the RunError.
func (e RunError) Unwrap() error { return e.Cause }

// ServerError represents errors that occur in the HTTP server component.
// It wraps an underlying error with additional context specific to the server operation.
type ServerError struct {
	// Message is a descriptive message about the server error.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns the error message for a ServerError.
// It combines the descriptive message and the underlying cause if present.
func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a new ServerError with a message and optional cause.
//
// Parameters:
//   - message: A description of the error context.
//   - cause: The underlying error that occurred (can be nil).
//
// Returns:
//   - error: A new ServerError instance.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError represents an error due to invalid input validation.
// It is used for API request validation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message describes why validation failed.
	Message string
	// Value is the invalid value (optional, may be nil).
	Value any
}

// Error returns the error message for a ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
