// Package retry provides the exponential backoff policy applied to
// store-dependent operations.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Config provides retry configuration
type Config struct {
	MaxAttempts  int           // Total attempts including the first
	InitialDelay time.Duration // Delay before the second attempt
	MaxDelay     time.Duration // Upper bound for any single delay
	Multiplier   float64       // Backoff multiplier
	Jitter       float64       // Randomization factor in [0, 1)
}

// DefaultConfig returns the store policy: 3 attempts, 2s doubling to at most 10s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

func (c Config) normalized() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 2 * time.Second
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = c.InitialDelay
	}
	if c.Multiplier < 1 {
		c.Multiplier = 2.0
	}
	if c.Jitter < 0 || c.Jitter >= 1 {
		c.Jitter = 0
	}
	return c
}

func (c Config) backOff(ctx context.Context) backoff.BackOff {
	c = c.normalized()
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.InitialDelay
	exp.MaxInterval = c.MaxDelay
	exp.Multiplier = c.Multiplier
	exp.RandomizationFactor = c.Jitter
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.MaxAttempts-1)), ctx)
}

// Permanent marks err so that Do stops retrying and returns it unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Do executes fn until it succeeds, returns a permanent error, the attempt
// budget is exhausted or ctx is done. The last error is returned.
func Do(ctx context.Context, cfg Config, logger *slog.Logger, operation string, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, logger, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for functions that return a value.
func DoWithResult[T any](ctx context.Context, cfg Config, logger *slog.Logger, operation string, fn func() (T, error)) (T, error) {
	if logger == nil {
		logger = slog.Default()
	}
	attempt := 0
	notify := func(err error, next time.Duration) {
		logger.Warn("retrying operation",
			"operation", operation,
			"attempt", attempt,
			"next_delay", next,
			"error", err)
	}
	return backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		return fn()
	}, cfg.backOff(ctx), notify)
}
