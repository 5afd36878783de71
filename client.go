package graphrecall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/graphrecall/pkg/alert"
	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/embedder"
	"github.com/soundprediction/graphrecall/pkg/expander"
	"github.com/soundprediction/graphrecall/pkg/jobs"
	"github.com/soundprediction/graphrecall/pkg/nlp"
	"github.com/soundprediction/graphrecall/pkg/search"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// Client is the main implementation of the GraphRecall interface.
type Client struct {
	store       driver.GraphStore
	llm         nlp.Client
	embedder    embedder.Client
	expander    *expander.Expander
	searcher    *search.Searcher
	communities *search.CommunitySearcher
	detector    *community.Detector
	jobs        *jobs.Runner
	jobStore    jobs.Store
	scheduler   *jobs.Scheduler
	config      *Config
	logger      *slog.Logger
}

// Config holds configuration for the GraphRecall client.
type Config struct {
	Expander  expander.Config
	Search    search.Config
	Community community.Config

	// JobStore records detection runs. An in-memory store is used when nil.
	JobStore jobs.Store
	// Alerter is notified of failed detection jobs.
	Alerter alert.Alerter
	// JobInterval runs detection periodically once StartScheduler is called.
	// Zero disables scheduled runs.
	JobInterval time.Duration
	// JobOptions are the parameters of scheduled runs.
	JobOptions jobs.Options
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	return &Config{
		Expander:  expander.DefaultConfig(),
		Search:    search.DefaultConfig(),
		Community: community.DefaultConfig(),
	}
}

// NewClient creates a GraphRecall client over an existing store, LLM and
// embedder. The embedder may be nil, in which case reranking keeps the
// expansion order.
func NewClient(store driver.GraphStore, llmClient nlp.Client, embedderClient embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if store == nil {
		return nil, errors.New("graph store is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	exp := expander.New(store, llmClient, embedderClient, config.Expander, logger)
	searcher := search.New(store, exp, llmClient, config.Search, logger)

	detector, err := community.New(store, config.Community, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create community detector: %w", err)
	}

	jobStore := config.JobStore
	if jobStore == nil {
		jobStore, err = jobs.OpenInMemoryStore()
		if err != nil {
			return nil, fmt.Errorf("failed to open job store: %w", err)
		}
	}
	runner := jobs.NewRunner(detector, jobStore, config.Alerter, logger)

	return &Client{
		store:       store,
		llm:         llmClient,
		embedder:    embedderClient,
		expander:    exp,
		searcher:    searcher,
		communities: search.NewCommunitySearcher(searcher),
		detector:    detector,
		jobs:        runner,
		jobStore:    jobStore,
		scheduler:   jobs.NewScheduler(runner, config.JobInterval, config.JobOptions, logger),
		config:      config,
		logger:      logger,
	}, nil
}

// GetStore returns the underlying graph store
func (c *Client) GetStore() driver.GraphStore {
	return c.store
}

// GetLLM returns the LLM client
func (c *Client) GetLLM() nlp.Client {
	return c.llm
}

// GetDetector returns the community detector
func (c *Client) GetDetector() *community.Detector {
	return c.detector
}

// ExpandEntities resolves a query into entity names present in the graph.
func (c *Client) ExpandEntities(ctx context.Context, query string, namespaces []string) ([]string, int) {
	return c.expander.ExpandEntities(ctx, query, namespaces)
}

// ExpandAndRerank expands a query and orders the names by similarity to it.
func (c *Client) ExpandAndRerank(ctx context.Context, query string, namespaces []string, topK int) ([]types.ScoredEntity, int) {
	return c.expander.ExpandAndRerank(ctx, query, namespaces, topK)
}

// LocalSearch retrieves passages mentioning the expanded entities.
func (c *Client) LocalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.GraphEntity, map[string]any, error) {
	return c.searcher.LocalSearch(ctx, query, topK, namespaces)
}

// GlobalSearch retrieves entity-type topics for a query.
func (c *Client) GlobalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.Topic, error) {
	return c.searcher.GlobalSearch(ctx, query, topK, namespaces)
}

// HybridSearch combines local and global retrieval and generates an answer.
func (c *Client) HybridSearch(ctx context.Context, query string, topK int, namespaces []string) (*types.GraphQueryResult, error) {
	return c.searcher.HybridSearch(ctx, query, topK, namespaces)
}

// SearchByCommunity retrieves entities grouped by their community.
func (c *Client) SearchByCommunity(ctx context.Context, query string, communityIDs []string, topK int) (*types.CommunitySearchResult, error) {
	return c.communities.SearchByCommunity(ctx, query, communityIDs, topK)
}

// DetectCommunities runs community detection directly, without recording a job.
func (c *Client) DetectCommunities(ctx context.Context, opts community.DetectOptions) (*community.DetectionResult, error) {
	return c.detector.DetectCommunities(ctx, opts)
}

// RunDetectionJob runs community detection and records it as a job.
func (c *Client) RunDetectionJob(ctx context.Context, opts jobs.Options) (*jobs.Job, error) {
	return c.jobs.Run(ctx, opts)
}

// GetCommunity returns a persisted community by id.
func (c *Client) GetCommunity(ctx context.Context, communityID string) (*types.Community, error) {
	return c.detector.GetCommunity(ctx, communityID)
}

// GetEntityCommunity returns the community an entity belongs to.
func (c *Client) GetEntityCommunity(ctx context.Context, entityID string) (*types.Community, error) {
	return c.detector.GetEntityCommunity(ctx, entityID)
}

// ListCommunities returns persisted communities of at least minSize members.
func (c *Client) ListCommunities(ctx context.Context, minSize int) ([]*types.Community, error) {
	return c.detector.ListCommunities(ctx, minSize)
}

// FindRelatedCommunities returns communities connected to communityID.
func (c *Client) FindRelatedCommunities(ctx context.Context, communityID string, topK int) ([]*types.Community, error) {
	return c.communities.FindRelatedCommunities(ctx, communityID, topK)
}

// GetCommunityStatistics returns structural statistics of a community.
func (c *Client) GetCommunityStatistics(ctx context.Context, communityID string) (*types.CommunityStatistics, error) {
	return c.communities.GetCommunityStatistics(ctx, communityID)
}

// CacheInfo returns statistics of the partition cache.
func (c *Client) CacheInfo() types.CacheInfo {
	return c.detector.CacheInfo()
}

// ClearCache empties the partition cache.
func (c *Client) ClearCache() {
	c.detector.ClearCache()
}

// GetJob returns a detection job by id.
func (c *Client) GetJob(ctx context.Context, jobID string) (*jobs.Job, error) {
	return c.jobs.Get(ctx, jobID)
}

// ListJobs returns the most recent detection jobs, newest first.
func (c *Client) ListJobs(ctx context.Context, limit int) ([]*jobs.Job, error) {
	return c.jobs.List(ctx, limit)
}

// Ping checks that the graph store answers queries.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.store.ExecuteRead(ctx, "RETURN 1 AS ok", nil); err != nil {
		return fmt.Errorf("graph store unreachable: %w", err)
	}
	return nil
}

// StartScheduler starts periodic detection when a job interval is configured.
func (c *Client) StartScheduler(ctx context.Context) {
	c.scheduler.Start(ctx)
}

// Close stops the scheduler and releases the store, LLM, embedder and job store.
func (c *Client) Close(ctx context.Context) error {
	c.scheduler.Stop()

	var errs []error
	if err := c.jobStore.Close(); err != nil {
		errs = append(errs, fmt.Errorf("job store: %w", err))
	}
	if c.llm != nil {
		if err := c.llm.Close(); err != nil {
			errs = append(errs, fmt.Errorf("llm: %w", err))
		}
	}
	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("embedder: %w", err))
		}
	}
	if err := c.store.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	return errors.Join(errs...)
}

var (
	// ErrCommunityNotFound is returned when a community has no members.
	ErrCommunityNotFound = community.ErrCommunityNotFound
	// ErrJobNotFound is returned when no detection job has the requested id.
	ErrJobNotFound = jobs.ErrJobNotFound
)
