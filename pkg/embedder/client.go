package embedder

import (
	"context"
	"errors"
)

// ErrNoEmbeddings is returned when a provider answers with fewer vectors than texts.
var ErrNoEmbeddings = errors.New("no embeddings returned")

// Client generates vector representations of text.
type Client interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedSingle returns the vector for one text.
	EmbedSingle(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the length of produced vectors.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

// Config holds common embedder settings.
type Config struct {
	Model      string `json:"model"`
	BaseURL    string `json:"base_url,omitempty"`
	BatchSize  int    `json:"batch_size,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
}

const defaultBatchSize = 100

var knownDimensions = map[string]int{
	"text-embedding-ada-002": 1536,
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"all-MiniLM-L6-v2":       384,
	"bge-small-en-v1.5":      384,
	"bge-base-en-v1.5":       768,
}

// dimensionsFor returns configured dimensions, falling back to the model table.
func dimensionsFor(cfg Config) int {
	if cfg.Dimensions > 0 {
		return cfg.Dimensions
	}
	if d, ok := knownDimensions[cfg.Model]; ok {
		return d
	}
	return 1536
}

func batches(texts []string, size int) [][]string {
	if size <= 0 {
		size = defaultBatchSize
	}
	var out [][]string
	for start := 0; start < len(texts); start += size {
		end := min(start+size, len(texts))
		out = append(out, texts[start:end])
	}
	return out
}

func first(vectors [][]float32, err error) ([]float32, error) {
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, ErrNoEmbeddings
	}
	return vectors[0], nil
}
