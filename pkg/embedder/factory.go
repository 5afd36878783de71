package embedder

import (
	"fmt"

	"github.com/soundprediction/graphrecall/pkg/config"
)

// NewFromConfig returns the embedder selected by cfg.Provider.
func NewFromConfig(cfg config.EmbeddingConfig) (Client, error) {
	common := Config{
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		Dimensions: cfg.Dimensions,
	}
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIEmbedder(cfg.APIKey, common), nil
	case "embedeverything":
		return NewEmbedEverythingClient(common)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
