package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"github.com/soundprediction/graphrecall/pkg/alert"
	"github.com/soundprediction/graphrecall/pkg/config"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// CircuitBreakerClient wraps a Client with circuit breaking logic
type CircuitBreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
	name   string
}

// WithCircuitBreaker wraps client when cfg is enabled and returns it unchanged otherwise.
func WithCircuitBreaker(client Client, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string, logger *slog.Logger) Client {
	if !cfg.Enabled {
		return client
	}
	return NewCircuitBreakerClient(client, cfg, alerter, name, logger)
}

// NewCircuitBreakerClient creates a new circuit breaker client
func NewCircuitBreakerClient(client Client, cfg config.CircuitBreakerConfig, alerter alert.Alerter, name string, logger *slog.Logger) *CircuitBreakerClient {
	if logger == nil {
		logger = slog.Default()
	}
	ratio := cfg.ReadyToTripRatio
	if ratio <= 0 {
		ratio = 0.6
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    time.Duration(cfg.Interval) * time.Second,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= ratio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			if to != gobreaker.StateOpen || alerter == nil {
				return
			}
			msg := fmt.Sprintf("Circuit breaker '%s' changed status from %s to %s. Too many failures detected.", name, from, to)
			if err := alerter.Alert(fmt.Sprintf("Circuit Breaker Tripped - %s", name), msg); err != nil {
				logger.Error("failed to send circuit breaker alert", "breaker", name, "error", err)
			}
		},
	}

	return &CircuitBreakerClient{
		client: client,
		cb:     gobreaker.NewCircuitBreaker(st),
		name:   name,
	}
}

// Generate implements Client
func (c *CircuitBreakerClient) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	resp, err := c.cb.Execute(func() (interface{}, error) {
		return c.client.Generate(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*types.GenerationResult), nil
}

// State reports the breaker state.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// Close implements Client
func (c *CircuitBreakerClient) Close() error {
	return c.client.Close()
}
