package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/graphrecall/pkg/config"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// RouterClient routes tasks to specific LLM providers by task type
type RouterClient struct {
	providers     map[string]Client
	rules         []config.RouteRule
	defaultClient Client
	logger        *slog.Logger
}

// NewRouterClient creates a new router client. The provider named "default"
// serves tasks without a matching rule.
func NewRouterClient(providers map[string]Client, rules []config.RouteRule, logger *slog.Logger) (*RouterClient, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	defaultClient, ok := providers["default"]
	if !ok {
		// Pick any
		for _, client := range providers {
			defaultClient = client
			break
		}
	}

	for _, rule := range rules {
		if _, ok := providers[rule.Provider]; !ok {
			return nil, fmt.Errorf("route for %s references unknown provider %q", rule.TaskType, rule.Provider)
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &RouterClient{
		providers:     providers,
		rules:         rules,
		defaultClient: defaultClient,
		logger:        logger,
	}, nil
}

// route determines which client serves taskType and its optional fallback
func (r *RouterClient) route(taskType types.TaskType) (Client, string, Client) {
	for _, rule := range r.rules {
		if !strings.EqualFold(rule.TaskType, string(taskType)) {
			continue
		}
		primary, ok := r.providers[rule.Provider]
		if !ok {
			continue
		}
		var fallback Client
		if rule.Fallback != "" {
			fallback = r.providers[rule.Fallback]
		}
		return primary, rule.Provider, fallback
	}
	return r.defaultClient, "default", nil
}

// Generate implements Client with routing and fallback
func (r *RouterClient) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	primary, name, fallback := r.route(task.TaskType)

	resp, err := primary.Generate(ctx, task)
	if err != nil && fallback != nil {
		r.logger.Warn("routing fallback triggered", "task_type", task.TaskType, "provider", name, "error", err)
		return fallback.Generate(ctx, task)
	}
	return resp, err
}

// Close closes all providers
func (r *RouterClient) Close() error {
	var errs []string
	for id, provider := range r.providers {
		if err := provider.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", id, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing providers: %s", strings.Join(errs, "; "))
	}
	return nil
}
