package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want ErrorType
	}{
		{401, ErrorTypeAuth},
		{403, ErrorTypeAuth},
		{404, ErrorTypeNotFound},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{400, ErrorTypeUnknown},
		{200, ErrorTypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromStatusCode(tt.code), "status %d", tt.code)
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{
		Type:    ErrorTypeRateLimit,
		Message: "too many requests",
		Code:    429,
	}

	assert.Contains(t, err.Error(), "rate_limit")
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "too many requests")
}

func TestIsType(t *testing.T) {
	err := &Error{Type: ErrorTypeNotFound, Code: 404}

	assert.True(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(err, ErrorTypeAuth))
	assert.False(t, IsType(nil, ErrorTypeNotFound))
	assert.False(t, IsType(fmt.Errorf("plain error"), ErrorTypeNotFound))

	// Wrapped errors are unwrapped
	wrapped := fmt.Errorf("download failed: %w", err)
	assert.True(t, IsType(wrapped, ErrorTypeNotFound))
}
