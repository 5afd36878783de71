package community

import (
	"fmt"
	"strings"
	"time"

	"github.com/soundprediction/graphrecall/pkg/retry"
)

// Algorithm names a community detection algorithm.
type Algorithm string

const (
	AlgorithmLouvain          Algorithm = "louvain"
	AlgorithmLeiden           Algorithm = "leiden"
	AlgorithmLabelPropagation Algorithm = "label_propagation"
)

// ParseAlgorithm accepts algorithm names case-insensitively, with dashes or
// underscores.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch Algorithm(normalized) {
	case AlgorithmLouvain, AlgorithmLeiden, AlgorithmLabelPropagation:
		return Algorithm(normalized), nil
	case "labelpropagation", "lpa":
		return AlgorithmLabelPropagation, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
}

// Method records which path produced a partition.
type Method string

const (
	MethodGDS      Method = "gds"
	MethodFallback Method = "fallback"
)

// PersistMode selects how community labels are written back.
type PersistMode string

const (
	// PersistDirect writes community_id one community at a time. Readers can
	// observe a mix of old and new labels while a run is in progress.
	PersistDirect PersistMode = "direct"
	// PersistStaged writes every label to community_id_staging first and then
	// copies all of them to community_id in a single statement.
	PersistStaged PersistMode = "staged"
)

// Config holds community detector settings.
type Config struct {
	Algorithm   Algorithm
	Resolution  float64
	MinSize     int
	CacheSize   int
	Workers     int
	Seed        int64
	PersistMode PersistMode

	// RecheckInterval bounds how long an availability probe result is
	// trusted. Zero or less probes once per detector.
	RecheckInterval time.Duration

	Retry retry.Config
}

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Algorithm:       AlgorithmLouvain,
		Resolution:      1.0,
		MinSize:         3,
		CacheSize:       DefaultCacheSize,
		Workers:         2,
		Seed:            42,
		PersistMode:     PersistDirect,
		RecheckInterval: 10 * time.Minute,
		Retry:           retry.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Algorithm == "" {
		c.Algorithm = def.Algorithm
	}
	if c.Resolution <= 0 {
		c.Resolution = def.Resolution
	}
	if c.MinSize <= 0 {
		c.MinSize = def.MinSize
	}
	if c.CacheSize <= 0 {
		c.CacheSize = def.CacheSize
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.PersistMode == "" {
		c.PersistMode = def.PersistMode
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry = def.Retry
	}
	return c
}

// DetectOptions are per-run parameters. Zero values take the detector's
// configured defaults.
type DetectOptions struct {
	Algorithm  Algorithm
	Resolution float64
	MinSize    int
}
