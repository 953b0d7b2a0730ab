package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"godge/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, keeping the code of the cause
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    CodeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// Predefined error codes
const (
	CodeConfigInvalid      = "CONFIG_INVALID"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInsufficientSample = "INSUFFICIENT_SAMPLE"
	CodeColumnAlignment    = "COLUMN_ALIGNMENT"
	CodeUnsupportedMethod  = "UNSUPPORTED_METHOD"
	CodeFileAccess         = "FILE_ACCESS"
	CodeCancelled          = "CANCELLED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// CodeFor returns the code of the outermost AppError in the chain, or the
// code matching a domain error, or INTERNAL_ERROR.
func CodeFor(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case stderrors.Is(err, core.ErrInsufficientSample):
		return CodeInsufficientSample
	case stderrors.Is(err, core.ErrColumnAlignment):
		return CodeColumnAlignment
	case stderrors.Is(err, core.ErrUnsupportedMethod):
		return CodeUnsupportedMethod
	case stderrors.Is(err, core.ErrFileAccess):
		return CodeFileAccess
	case stderrors.Is(err, core.ErrInvalidInput):
		return CodeInvalidInput
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	default:
		return CodeInternalError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}
