package nlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/soundprediction/graphrecall/pkg/retry"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// RetryConfig holds configuration for retry behavior
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (default: 3)
	MaxRetries int
	// InitialDelay is the initial delay before the first retry (default: 1 second)
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries (default: 60 seconds)
	MaxDelay time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff (default: 2.0)
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialDelay:      1 * time.Second,
		MaxDelay:          60 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps an LLM client and retries rate limits and transient failures
type RetryClient struct {
	client Client
	config *RetryConfig
	logger *slog.Logger
}

// NewRetryClient creates a new retry client wrapper
func NewRetryClient(client Client, config *RetryConfig, logger *slog.Logger) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 3
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = 1 * time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 60 * time.Second
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RetryClient{
		client: client,
		config: config,
		logger: logger,
	}
}

// Generate implements Client with retry logic
func (r *RetryClient) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	policy := retry.Config{
		MaxAttempts:  r.config.MaxRetries + 1,
		InitialDelay: r.config.InitialDelay,
		MaxDelay:     r.config.MaxDelay,
		Multiplier:   r.config.BackoffMultiplier,
		Jitter:       0.1,
	}

	attempts := 0
	result, err := retry.DoWithResult(ctx, policy, r.logger, "llm_generate", func() (*types.GenerationResult, error) {
		attempts++
		res, err := r.client.Generate(ctx, task)
		if err != nil && !isRetryableError(err) {
			return nil, retry.Permanent(err)
		}
		return res, err
	})
	if err != nil {
		if attempts > 1 {
			return nil, fmt.Errorf("failed after %d attempts: %w", attempts, err)
		}
		return nil, err
	}
	return result, nil
}

// Close implements the Client interface
func (r *RetryClient) Close() error {
	return r.client.Close()
}

// isRetryableError determines if an error is retryable
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrRateLimit) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	type httpErrorWithStatusCode interface {
		HTTPStatusCode() int
	}
	var httpErr httpErrorWithStatusCode
	if errors.As(err, &httpErr) {
		statusCode := httpErr.HTTPStatusCode()
		return statusCode >= 500 || statusCode == http.StatusTooManyRequests
	}

	errMsg := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"500", "internal server error",
		"502", "bad gateway",
		"503", "service unavailable",
		"504", "gateway timeout",
		"timeout",
		"connection reset",
		"connection refused",
		"temporary failure",
		"rate limit",
		"too many requests",
		"429",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
