// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 0, "-reps"),
			expected: "invalid value 0 for flag -reps",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if !errors.Is(tt.err, ErrInvalidConfiguration) {
				t.Error("expected ConfigError to match ErrInvalidConfiguration")
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestShapeMismatchError(t *testing.T) {
	t.Parallel()
	err := NewShapeMismatchError("decode", 8, 7)
	if got, want := err.Error(), "decode: shape mismatch: want length 8, got 7"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	wrapped := fmt.Errorf("run: %w", err)
	if !errors.Is(wrapped, ErrShapeMismatch) {
		t.Error("wrapped ShapeMismatchError should match ErrShapeMismatch")
	}
	if errors.Is(wrapped, ErrForeignCallFailure) {
		t.Error("ShapeMismatchError must not match ErrForeignCallFailure")
	}

	var shapeErr *ShapeMismatchError
	if !errors.As(wrapped, &shapeErr) {
		t.Fatal("expected errors.As to find *ShapeMismatchError")
	}
	if shapeErr.Want != 8 || shapeErr.Got != 7 {
		t.Errorf("unexpected fields: %+v", shapeErr)
	}
}

func TestForeignCallError(t *testing.T) {
	t.Parallel()
	err := NewForeignCallError("fft", 12)
	if !errors.Is(err, ErrForeignCallFailure) {
		t.Error("ForeignCallError should match ErrForeignCallFailure")
	}
	if errors.Is(err, ErrShapeMismatch) {
		t.Error("ForeignCallError must not match ErrShapeMismatch")
	}
	var fcErr *ForeignCallError
	if !errors.As(err, &fcErr) || fcErr.Kernel != "fft" || fcErr.Count != 12 {
		t.Errorf("unexpected ForeignCallError: %+v", fcErr)
	}
}

func TestRunError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		cause       error
		expectedMsg string
		checkIs     error
	}{
		{
			name:        "Error includes implementation and size",
			cause:       errors.New("boom"),
			expectedMsg: "dft at size 16: boom",
		},
		{
			name:        "errors.Is reaches the taxonomy sentinel",
			cause:       NewForeignCallError("dft", 16),
			expectedMsg: `dft at size 16: foreign kernel "dft" returned no result for 16 elements`,
			checkIs:     ErrForeignCallFailure,
		},
		{
			name:        "errors.Is works with context errors",
			cause:       context.Canceled,
			expectedMsg: "dft at size 16: context canceled",
			checkIs:     context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := RunError{Implementation: "dft", Size: 16, Cause: tt.cause}
			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if errors.Unwrap(err) != tt.cause {
				t.Error("Unwrap should return the cause")
			}
			if tt.checkIs != nil && !errors.Is(err, tt.checkIs) {
				t.Errorf("expected errors.Is(err, %v) to be true", tt.checkIs)
			}
		})
	}
}

func TestServerError(t *testing.T) {
	t.Parallel()
	cause := errors.New("address in use")
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "With cause", err: NewServerError("server failed to start", cause), expected: "server failed to start: address in use"},
		{name: "Without cause", err: NewServerError("shutdown", nil), expected: "shutdown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
	if !errors.Is(NewServerError("x", cause), cause) {
		t.Error("ServerError should unwrap to its cause")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "context") != nil {
		t.Error("WrapError(nil) should return nil")
	}
	base := errors.New("base")
	wrapped := WrapError(base, "size %d", 4)
	if wrapped.Error() != "size 4: base" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should match base")
	}
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err      error
		expected bool
	}{
		{context.Canceled, true},
		{context.DeadlineExceeded, true},
		{fmt.Errorf("wrapped: %w", context.Canceled), true},
		{errors.New("other"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsContextError(tt.err); got != tt.expected {
			t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	withField := NewValidationError("sizes", "must be increasing", []int{4, 2})
	if withField.Error() != "validation error for 'sizes': must be increasing" {
		t.Errorf("unexpected message %q", withField.Error())
	}
	noField := NewValidationError("", "bad request", nil)
	if noField.Error() != "validation error: bad request" {
		t.Errorf("unexpected message %q", noField.Error())
	}
}
