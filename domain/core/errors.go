package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrInsufficientSample = errors.New("insufficient sample size")
	ErrColumnAlignment    = errors.New("gene columns are not aligned")

	// Procedure errors
	ErrUnsupportedMethod = errors.New("unsupported correction method")

	// I/O errors
	ErrFileAccess = errors.New("file access failed")
)

// Error constructors with context
func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

func NewInsufficientSampleError(n, min int) error {
	return fmt.Errorf("%w: got %d values, need at least %d", ErrInsufficientSample, n, min)
}

func NewColumnAlignmentError(reason string) error {
	return fmt.Errorf("%w: %s", ErrColumnAlignment, reason)
}

func NewUnsupportedMethodError(method string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
}

func NewFileAccessError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInsufficientSample) ||
		errors.Is(err, ErrColumnAlignment)
}

func IsUnsupportedMethod(err error) bool {
	return errors.Is(err, ErrUnsupportedMethod)
}

func IsFileAccessError(err error) bool {
	return errors.Is(err, ErrFileAccess)
}
