package nlp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitError(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		err := NewRateLimitError()
		assert.Equal(t, "rate limit exceeded. Please try again later", err.Error())
	})

	t.Run("custom message", func(t *testing.T) {
		err := NewRateLimitError("slow down")
		assert.Equal(t, "slow down", err.Error())
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("generate: %w", NewRateLimitError())
		assert.True(t, errors.Is(wrapped, &RateLimitError{}))
		assert.True(t, errors.Is(wrapped, ErrRateLimit))
		assert.False(t, errors.Is(wrapped, ErrEmptyResponse))
	})
}

func TestEmptyResponseError(t *testing.T) {
	err := NewEmptyResponseError("no choices")
	assert.Equal(t, "no choices", err.Error())
	assert.True(t, errors.Is(fmt.Errorf("x: %w", err), ErrEmptyResponse))
}
