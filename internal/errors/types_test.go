package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeInvalidConfig,
				Message: "configuration is invalid",
			},
			expected: "INVALID_CONFIG: configuration is invalid",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeIntegrity,
				Message: "token failed authentication",
				Cause:   errors.New("hmac mismatch"),
			},
			expected: "INTEGRITY: token failed authentication: hmac mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternalError, "something went wrong")

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrCodeInvalidInput, "invalid input")

	result := err.WithContext("field", "iterations").WithContext("value", -1)

	assert.Same(t, err, result)
	assert.Len(t, err.Context, 2)
	assert.Equal(t, "iterations", err.Context["field"])
	assert.Equal(t, -1, err.Context["value"])
}

func TestAppError_WithUserMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "no route")

	result := err.WithUserMessage("Not Found")

	assert.Same(t, err, result)
	assert.Equal(t, "Not Found", err.UserMessage)
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, GetCode(New(ErrCodeNotFound, "x")))
	assert.Equal(t, ErrCodeInternalError, GetCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", New(ErrCodeIntegrity, "bad token"))
	assert.Equal(t, ErrCodeIntegrity, GetCode(wrapped))
}

func TestGetUserMessage(t *testing.T) {
	assert.Equal(t, "Not Found", GetUserMessage(New(ErrCodeNotFound, "x").WithUserMessage("Not Found")))
	assert.Equal(t, "An internal error occurred", GetUserMessage(New(ErrCodeNotFound, "x")))
	assert.Equal(t, "An internal error occurred", GetUserMessage(errors.New("plain")))
}

func TestAs(t *testing.T) {
	appErr := New(ErrCodeInvalidFormat, "bad record")

	got, ok := As(fmt.Errorf("context: %w", appErr))
	require.True(t, ok)
	assert.Same(t, appErr, got)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
