package nlp

import (
	"fmt"
	"log/slog"

	"github.com/soundprediction/graphrecall/pkg/alert"
	"github.com/soundprediction/graphrecall/pkg/config"
)

// NewClientFromConfig builds one provider per configured model, wraps each in
// retry and circuit breaking, and routes between them by task type. Usage is
// tracked when usagePath is set.
func NewClientFromConfig(cfg config.NLPConfig, cb config.CircuitBreakerConfig, alerter alert.Alerter, usagePath string, logger *slog.Logger) (Client, error) {
	if len(cfg.Models) == 0 {
		return nil, ErrNoProviders
	}
	if logger == nil {
		logger = slog.Default()
	}

	retryCfg := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retryCfg.MaxRetries = cfg.MaxRetries
	}

	providers := make(map[string]Client, len(cfg.Models))
	for name, model := range cfg.Models {
		var base Client
		switch model.Provider {
		case "", ProviderOpenAI:
			c, err := NewOpenAIClient(model)
			if err != nil {
				return nil, fmt.Errorf("provider %q: %w", name, err)
			}
			base = c
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, model.Provider)
		}
		wrapped := Client(NewRetryClient(base, retryCfg, logger))
		providers[name] = WithCircuitBreaker(wrapped, cb, alerter, "llm-"+name, logger)
	}

	var client Client
	if len(providers) == 1 && len(cfg.Routes) == 0 {
		for _, p := range providers {
			client = p
		}
	} else {
		router, err := NewRouterClient(providers, cfg.Routes, logger)
		if err != nil {
			return nil, err
		}
		client = router
	}

	if usagePath != "" {
		tracker, err := NewUsageTracker(usagePath)
		if err != nil {
			return nil, err
		}
		client = NewUsageTrackingClient(client, tracker, logger)
	}
	return client, nil
}
