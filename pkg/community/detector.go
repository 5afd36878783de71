package community

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/retry"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// Store is the part of the graph store the detector needs. Analytics
// procedures run through ExecuteQuery because they manage their own
// transactions.
type Store interface {
	driver.Reader
	driver.Writer
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]driver.Record, error)
}

// Availability is the cached result of probing for the analytics extension.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityUnavailable
)

func (a Availability) String() string {
	switch a {
	case AvailabilityAvailable:
		return "available"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// DetectionResult is the outcome of one detection run. Communities holds
// only communities of at least the requested minimum size; Total counts all
// of them.
type DetectionResult struct {
	Communities        []*types.Community `json:"communities"`
	Total              int                `json:"total"`
	AlgorithmRequested Algorithm          `json:"algorithm_requested"`
	AlgorithmUsed      Algorithm          `json:"algorithm_used"`
	Method             Method             `json:"method"`
	CacheHit           bool               `json:"cache_hit"`
	Duration           time.Duration      `json:"duration"`
}

// Detector runs community detection against a graph store.
type Detector struct {
	store    Store
	config   Config
	logger   *slog.Logger
	cache    *partitionCache
	workers  *semaphore.Weighted
	inflight singleflight.Group
	now      func() time.Time

	mu           sync.Mutex
	availability Availability
	probedAt     time.Time
}

// New creates a Detector. Zero config fields take their defaults.
func New(store Store, cfg Config, logger *slog.Logger) (*Detector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	cache, err := newPartitionCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create partition cache: %w", err)
	}
	return &Detector{
		store:   store,
		config:  cfg,
		logger:  logger.With("component", "community_detector"),
		cache:   cache,
		workers: semaphore.NewWeighted(int64(cfg.Workers)),
		now:     time.Now,
	}, nil
}

// Config returns the effective configuration.
func (d *Detector) Config() Config {
	return d.config
}

// DetectCommunities partitions the entity graph, persists community_id on
// every entity and returns the communities of at least the minimum size.
// The run is retried as a whole when the store fails.
func (d *Detector) DetectCommunities(ctx context.Context, opts DetectOptions) (*DetectionResult, error) {
	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = d.config.Algorithm
	}
	algorithm, err := ParseAlgorithm(string(algorithm))
	if err != nil {
		return nil, err
	}
	resolution := opts.Resolution
	if resolution <= 0 {
		resolution = d.config.Resolution
	}
	minSize := opts.MinSize
	if minSize <= 0 {
		minSize = d.config.MinSize
	}

	start := time.Now()
	result, err := retry.DoWithResult(ctx, d.config.Retry, d.logger, "detect_communities", func() (*DetectionResult, error) {
		result, err := d.detect(ctx, algorithm, resolution)
		if err != nil {
			return nil, err
		}
		if err := d.persist(ctx, result.Communities); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		d.logger.Error("community detection failed", "algorithm", algorithm, "error", err)
		return nil, fmt.Errorf("community detection failed: %w", err)
	}

	result.Total = len(result.Communities)
	result.Communities = filterBySize(result.Communities, minSize)
	result.Duration = time.Since(start)

	d.logger.Info("community detection finished",
		"algorithm_requested", result.AlgorithmRequested,
		"algorithm_used", result.AlgorithmUsed,
		"method", result.Method,
		"cache_hit", result.CacheHit,
		"communities", result.Total,
		"returned", len(result.Communities),
		"duration", result.Duration)
	return result, nil
}

func (d *Detector) detect(ctx context.Context, algorithm Algorithm, resolution float64) (*DetectionResult, error) {
	if d.gdsAvailable(ctx) {
		result, err := d.detectGDS(ctx, algorithm, resolution)
		if err == nil {
			return result, nil
		}
		d.logger.Warn("gds detection failed, using in-process detection",
			"algorithm", algorithm, "error", err)
	}
	return d.detectInProcess(ctx, algorithm, resolution)
}

// Availability returns the last probe result without probing.
func (d *Detector) Availability() Availability {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.availability
}

// ResetAvailability forgets the probe result so the next run probes again.
func (d *Detector) ResetAvailability() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.availability = AvailabilityUnknown
	d.probedAt = time.Time{}
}

func (d *Detector) gdsAvailable(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.availability != AvailabilityUnknown {
		stale := d.config.RecheckInterval > 0 && d.now().Sub(d.probedAt) >= d.config.RecheckInterval
		if !stale {
			return d.availability == AvailabilityAvailable
		}
	}

	_, err := d.store.ExecuteQuery(ctx, gdsVersionQuery, nil)
	if err != nil && ctx.Err() != nil {
		return false
	}

	previous := d.availability
	d.availability = AvailabilityAvailable
	if err != nil {
		d.availability = AvailabilityUnavailable
	}
	d.probedAt = d.now()
	if previous != d.availability {
		d.logger.Info("graph analytics availability changed",
			"previous", previous, "current", d.availability)
	}
	return d.availability == AvailabilityAvailable
}

// CacheInfo reports the in-process partition cache statistics.
func (d *Detector) CacheInfo() types.CacheInfo {
	return d.cache.info()
}

// ClearCache drops all cached partitions and resets the statistics.
func (d *Detector) ClearCache() {
	d.cache.clear()
}

func filterBySize(communities []*types.Community, minSize int) []*types.Community {
	out := make([]*types.Community, 0, len(communities))
	for _, c := range communities {
		if c.Size >= minSize {
			out = append(out, c)
		}
	}
	return out
}

func communityMetadata(requested, used Algorithm, resolution float64, method Method, cacheStatus string) map[string]any {
	return map[string]any{
		"algorithm":           string(used),
		"algorithm_requested": string(requested),
		"resolution":          resolution,
		"method":              string(method),
		"cache_status":        cacheStatus,
	}
}
