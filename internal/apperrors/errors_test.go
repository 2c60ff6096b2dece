package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := Gateway("completion request timed out", context.DeadlineExceeded)

	assert.True(t, errors.Is(err, ErrGateway))
	assert.False(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "wrapped cause must stay reachable")
}

func TestError_IsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("chat turn: %w", Parse("invalid JSON", nil))

	assert.True(t, errors.Is(wrapped, ErrParse))
	assert.Equal(t, CodeParse, CodeOf(wrapped))
}

func TestCodeOf_Unknown(t *testing.T) {
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"without cause", NotFound("menu 7 not found"), "NOT_FOUND: menu 7 not found"},
		{"with cause", Configuration("GROQ_API_KEY is not set", errors.New("missing")), "CONFIGURATION_ERROR: GROQ_API_KEY is not set: missing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_WithDetail(t *testing.T) {
	err := Gateway("non-success status", nil).WithDetail("status", 503).WithDetail("body", "overloaded")

	assert.Equal(t, 503, err.Details["status"])
	assert.Equal(t, "overloaded", err.Details["body"])
}
