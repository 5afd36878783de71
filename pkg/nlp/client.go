package nlp

import (
	"context"

	"github.com/soundprediction/graphrecall/pkg/types"
)

// Client defines the interface for language model operations.
type Client interface {
	// Generate executes task and returns the generated text with provenance.
	Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error)

	// Close cleans up any resources.
	Close() error
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// ProviderOpenAI is the provider name reported by OpenAIClient.
const ProviderOpenAI = "openai"
