package embedder

import (
	"context"
	"fmt"
	"sync"

	"github.com/soundprediction/go-embedeverything/pkg/embedder"
)

// EmbedEverythingClient implements Client with a local go-embedeverything model.
type EmbedEverythingClient struct {
	mu     sync.Mutex
	client *embedder.Embedder
	config Config
}

// NewEmbedEverythingClient loads the configured model.
func NewEmbedEverythingClient(cfg Config) (*EmbedEverythingClient, error) {
	if cfg.Model == "" {
		cfg.Model = "all-MiniLM-L6-v2"
	}
	cfg.Dimensions = dimensionsFor(cfg)

	client, err := embedder.NewEmbedder(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &EmbedEverythingClient{
		client: client,
		config: cfg,
	}, nil
}

// Embed generates embeddings for the given texts.
// go-embedeverything does not accept a context, so cancellation is only
// checked between batches.
func (e *EmbedEverythingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, e.config.BatchSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors, err := e.client.Embed(batch)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// EmbedSingle generates an embedding for a single text.
func (e *EmbedEverythingClient) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return first(e.Embed(ctx, []string{text}))
}

// Dimensions returns the number of dimensions in the embeddings.
func (e *EmbedEverythingClient) Dimensions() int {
	return e.config.Dimensions
}

// Close releases the native model.
func (e *EmbedEverythingClient) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.client.Close()
	return nil
}
