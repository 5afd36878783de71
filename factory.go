package graphrecall

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/graphrecall/pkg/alert"
	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/config"
	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/embedder"
	"github.com/soundprediction/graphrecall/pkg/expander"
	"github.com/soundprediction/graphrecall/pkg/jobs"
	"github.com/soundprediction/graphrecall/pkg/nlp"
	"github.com/soundprediction/graphrecall/pkg/retry"
	"github.com/soundprediction/graphrecall/pkg/search"
)

// NewClientFromConfig connects to the configured graph store and builds the
// LLM, embedder, job store and alerter from cfg.
func NewClientFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, err := OpenStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	alerter := alert.New(cfg.Alert)

	llmClient, err := nlp.NewClientFromConfig(cfg.NLP, cfg.CircuitBreaker, alerter, cfg.Telemetry.UsagePath, logger)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	embedderClient, err := embedder.NewFromConfig(cfg.Embedding)
	if err != nil {
		// reranking degrades to expansion order without an embedder
		logger.Warn("embedder unavailable, reranking disabled", "provider", cfg.Embedding.Provider, "error", err)
		embedderClient = nil
	}

	var jobStore jobs.Store
	if cfg.Jobs.Path != "" {
		jobStore, err = jobs.OpenBadgerStore(cfg.Jobs.Path)
		if err != nil {
			_ = llmClient.Close()
			if embedderClient != nil {
				_ = embedderClient.Close()
			}
			_ = store.Close(ctx)
			return nil, fmt.Errorf("failed to open job store at %s: %w", cfg.Jobs.Path, err)
		}
	}

	clientCfg, err := ConfigFrom(cfg)
	if err != nil {
		return nil, err
	}
	clientCfg.JobStore = jobStore
	clientCfg.Alerter = alerter

	return NewClient(store, llmClient, embedderClient, clientCfg, logger)
}

// OpenStore connects to the configured graph database and verifies connectivity.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (driver.GraphStore, error) {
	var (
		store *driver.Neo4jDriver
		err   error
	)
	switch driver.GraphProvider(cfg.Driver) {
	case "", driver.GraphProviderNeo4j:
		store, err = driver.NewNeo4jDriver(cfg.URI, cfg.Username, cfg.Password, cfg.Database)
	case driver.GraphProviderMemgraph:
		store, err = driver.NewMemgraphDriver(cfg.URI, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", cfg.Driver, err)
	}
	if err := store.VerifyConnectivity(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URI, err)
	}
	return store, nil
}

// ConfigFrom maps application configuration onto client configuration.
func ConfigFrom(cfg *config.Config) (*Config, error) {
	algorithm, err := community.ParseAlgorithm(cfg.Community.Algorithm)
	if err != nil {
		return nil, err
	}

	return &Config{
		Expander: expander.Config{
			GraphExpansionHops: cfg.Expander.GraphExpansionHops,
			SynonymThreshold:   cfg.Expander.SynonymThreshold,
			MaxSynonyms:        cfg.Expander.MaxSynonyms,
			EnableSynonyms:     cfg.Expander.EnableSynonyms,
		},
		Search: search.Config{
			TopK:       cfg.Search.TopK,
			Namespaces: cfg.Search.Namespaces,
			Retry:      retry.DefaultConfig(),
		},
		Community: community.Config{
			Algorithm:       algorithm,
			Resolution:      cfg.Community.Resolution,
			MinSize:         cfg.Community.MinSize,
			CacheSize:       cfg.Community.CacheSize,
			Workers:         cfg.Community.Workers,
			Seed:            cfg.Community.Seed,
			PersistMode:     community.PersistMode(cfg.Community.PersistMode),
			RecheckInterval: time.Duration(cfg.Community.RecheckInterval) * time.Second,
			Retry:           retry.DefaultConfig(),
		},
		JobInterval: time.Duration(cfg.Jobs.Interval) * time.Second,
		JobOptions: jobs.Options{
			Algorithm:  algorithm,
			Resolution: cfg.Community.Resolution,
			MinSize:    cfg.Community.MinSize,
		},
	}, nil
}
