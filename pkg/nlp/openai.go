package nlp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/soundprediction/graphrecall/pkg/config"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// OpenAIClient implements Client for OpenAI and OpenAI-compatible services.
type OpenAIClient struct {
	client *openai.Client
	config config.NLPModelConfig
}

// NewOpenAIClient creates a new OpenAI client.
// Supports OpenAI-compatible services through a custom BaseURL.
func NewOpenAIClient(cfg config.NLPModelConfig) (*OpenAIClient, error) {
	var client *openai.Client

	if cfg.BaseURL != "" {
		if err := validateBaseURL(cfg.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		// Some compatible services don't require authentication
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "dummy-key"
		}

		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = cfg.BaseURL
		if !hasAPIPath(cfg.BaseURL) {
			clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/") + "/v1"
		}
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(cfg.APIKey)
	}

	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}

	return &OpenAIClient{
		client: client,
		config: cfg,
	}, nil
}

// Generate sends the task as a chat completion request.
func (c *OpenAIClient) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, c.buildChatRequest(task))
	if err != nil {
		return nil, translateError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, NewEmptyResponseError("no choices returned from openai")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return nil, NewEmptyResponseError("openai returned empty content")
	}

	model := resp.Model
	if model == "" {
		model = c.config.Model
	}

	result := &types.GenerationResult{
		Content:   content,
		Provider:  ProviderOpenAI,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
	}

	// Some OpenAI-compatible services don't report usage
	if resp.Usage.TotalTokens > 0 {
		result.TokensUsed = &types.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		result.CostUSD = CalculateCost(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	return result, nil
}

// Close cleans up resources (no-op for OpenAI client).
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) buildChatRequest(task types.Task) openai.ChatCompletionRequest {
	messages := task.Messages()
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		openaiMessages[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    openaiMessages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}
	if task.Temperature > 0 {
		req.Temperature = task.Temperature
	}
	if task.MaxTokens > 0 {
		req.MaxTokens = task.MaxTokens
	}
	return req
}

// translateError maps provider errors onto the package's typed errors.
func translateError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return NewRateLimitError(apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return NewRateLimitError(reqErr.Error())
	}
	return fmt.Errorf("openai chat completion failed: %w", err)
}

// validateBaseURL validates the base URL format.
func validateBaseURL(baseURL string) error {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("baseURL must use http:// or https:// scheme")
	}
	return nil
}

// hasAPIPath checks if the base URL already includes an API path component.
func hasAPIPath(baseURL string) bool {
	trimmed := strings.TrimRight(baseURL, "/")
	return strings.HasSuffix(trimmed, "/v1") || strings.HasSuffix(trimmed, "/api")
}
