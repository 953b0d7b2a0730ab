package core

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsInputError(NewInvalidInputError("x", "bad")))
	assert.True(t, IsInputError(NewInsufficientSampleError(1, 2)))
	assert.True(t, IsInputError(fmt.Errorf("gene A: %w", NewColumnAlignmentError("order"))))
	assert.False(t, IsInputError(NewUnsupportedMethodError("tukey")))

	assert.True(t, IsUnsupportedMethod(NewUnsupportedMethodError("tukey")))
	assert.True(t, IsFileAccessError(NewFileAccessError("a.csv", os.ErrNotExist)))
	assert.False(t, IsFileAccessError(errors.New("other")))
}

func TestNewFileAccessError_KeepsCause(t *testing.T) {
	err := NewFileAccessError("a.csv", os.ErrNotExist)
	assert.ErrorIs(t, err, ErrFileAccess)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "a.csv")
}

func TestNewInsufficientSampleError_Message(t *testing.T) {
	err := NewInsufficientSampleError(1, 2)
	assert.ErrorIs(t, err, ErrInsufficientSample)
	assert.Contains(t, err.Error(), "1")
}
