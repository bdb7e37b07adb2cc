package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDecode     ErrorType = "decode"
	ErrorTypeAllocation ErrorType = "allocation"
	ErrorTypeDegenerate ErrorType = "degenerate_input"
	ErrorTypeProcessing ErrorType = "processing"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeCanceled   ErrorType = "canceled"
	ErrorTypeInternal   ErrorType = "internal"
)

// Process exit codes used by the CLI
const (
	ExitOK         = 0
	ExitInternal   = 1
	ExitValidation = 2
	ExitDecode     = 3
	ExitProcessing = 4
	ExitTimeout    = 5
)

// AppError represents a structured application error
type AppError struct {
	Type     ErrorType `json:"type"`
	Message  string    `json:"message"`
	Details  string    `json:"details,omitempty"`
	ExitCode int       `json:"exit_code"`
	Cause    error     `json:"-"`
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
	return &AppError{
		Type:     ErrorTypeValidation,
		Message:  message,
		ExitCode: ExitValidation,
		Cause:    cause,
	}
}

// NewDecodeError creates a new decode error
func NewDecodeError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeDecode,
		Message:  message,
		ExitCode: ExitDecode,
		Cause:    cause,
	}
}

// NewAllocationError reports a buffer that would exceed the pixel ceiling
func NewAllocationError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeAllocation,
		Message:  message,
		ExitCode: ExitProcessing,
		Cause:    cause,
	}
}

// NewDegenerateInputError creates a new degenerate input error
func NewDegenerateInputError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeDegenerate,
		Message:  message,
		ExitCode: ExitValidation,
		Cause:    cause,
	}
}

// NewProcessingError creates a new processing error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeProcessing,
		Message:  message,
		ExitCode: ExitProcessing,
		Cause:    cause,
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeTimeout,
		Message:  message,
		ExitCode: ExitTimeout,
		Cause:    cause,
	}
}

// NewCanceledError creates a new cancellation error
func NewCanceledError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeCanceled,
		Message:  message,
		ExitCode: ExitTimeout,
		Cause:    cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:     ErrorTypeInternal,
		Message:  message,
		ExitCode: ExitInternal,
		Cause:    cause,
	}
}

// FromContext converts a context error into a timeout or canceled AppError.
// Any other error is returned unchanged.
func FromContext(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError(message, err)
	case stderrors.Is(err, context.Canceled):
		return NewCanceledError(message, err)
	default:
		return err
	}
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetExitCode extracts the process exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.ExitCode
	}
	return ExitInternal
}
