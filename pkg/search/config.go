package search

import "github.com/soundprediction/graphrecall/pkg/retry"

const (
	// DefaultTopK is used when a caller passes a non-positive top_k.
	DefaultTopK = 10
	// MaxRelationships caps the relationships fetched for a hybrid search.
	MaxRelationships = 20
	// MaxContextItems caps every section of the context block.
	MaxContextItems = 10

	minLocalK  = 3
	minGlobalK = 2
	// topicScoreStep is the score lost per rank position of a topic.
	topicScoreStep = 0.1
	topicKeywords  = 5
)

const (
	// UnableToAnswer replaces the answer when generation fails.
	UnableToAnswer = "Unable to generate answer at this time."
	// NoInformationAnswer is returned when nothing relevant was retrieved.
	NoInformationAnswer = "No relevant information was found in the knowledge graph for this query."
)

// Config holds searcher settings.
type Config struct {
	TopK       int
	Namespaces []string
	Retry      retry.Config
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		TopK:  DefaultTopK,
		Retry: retry.DefaultConfig(),
	}
}

// splitTopK divides topK between local and global retrieval.
func splitTopK(topK int) (localK, globalK int) {
	localK = max(topK/2, minLocalK)
	globalK = max(topK-localK, minGlobalK)
	return localK, globalK
}

// topicScore is 1 - 0.1*rank, clamped at zero.
func topicScore(rank int) float64 {
	return max(0, 1.0-float64(rank)*topicScoreStep)
}
