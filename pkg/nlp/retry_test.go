package nlp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/soundprediction/graphrecall/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      time.Millisecond,
		MaxDelay:          5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClient(t *testing.T) {
	task := types.Task{TaskType: types.TaskExtraction, Prompt: "test"}

	tests := []struct {
		name          string
		failUntil     int
		err           error
		wantErr       bool
		expectedCalls int
	}{
		{"success on first attempt", 0, nil, false, 1},
		{"retries server errors", 2, errors.New("500 internal server error"), false, 3},
		{"retries rate limits", 1, NewRateLimitError(), false, 2},
		{"does not retry client errors", 5, errors.New("400 bad request: invalid model"), true, 1},
		{"gives up after max retries", 10, errors.New("503 service unavailable"), true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockClient{name: "mock", failUntilCall: tt.failUntil, errorToReturn: tt.err}
			client := NewRetryClient(mock, fastRetryConfig(), nil)

			result, err := client.Generate(context.Background(), task)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "success from mock", result.Content)
			}
			assert.Equal(t, tt.expectedCalls, mock.calls())
		})
	}
}

func TestRetryClient_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock := &mockClient{failUntilCall: 10, errorToReturn: errors.New("timeout")}
	client := NewRetryClient(mock, fastRetryConfig(), nil)

	_, err := client.Generate(ctx, types.Task{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, 1, mock.calls())
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.True(t, isRetryableError(NewRateLimitError("slow down")))
	assert.True(t, isRetryableError(errors.New("connection reset by peer")))
	assert.False(t, isRetryableError(context.Canceled))
	assert.False(t, isRetryableError(errors.New("invalid api key")))
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialDelay)

	client := NewRetryClient(&mockClient{}, &RetryConfig{MaxRetries: -1}, nil)
	assert.Equal(t, 3, client.config.MaxRetries)
	assert.Equal(t, 2.0, client.config.BackoffMultiplier)
}
