package graphrecall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soundprediction/graphrecall"
	"github.com/soundprediction/graphrecall/pkg/config"
	"github.com/soundprediction/graphrecall/pkg/logger"
	"github.com/soundprediction/graphrecall/pkg/telemetry"
	"github.com/spf13/cobra"
)

// loadConfig loads configuration and applies the command-line overrides.
func loadConfig(cmd *cobra.Command, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	overrideConfigWithFlags(cmd, cfg)
	for _, override := range overrides {
		override(cfg)
	}

	if cfg.Database.URI == "" {
		return nil, fmt.Errorf("database URI is required")
	}
	return cfg, nil
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	// Database flags
	if flags.Changed("db-driver") {
		cfg.Database.Driver, _ = flags.GetString("db-driver")
	}
	if flags.Changed("db-uri") {
		cfg.Database.URI, _ = flags.GetString("db-uri")
	}
	if flags.Changed("db-username") {
		cfg.Database.Username, _ = flags.GetString("db-username")
	}
	if flags.Changed("db-password") {
		cfg.Database.Password, _ = flags.GetString("db-password")
	}
	if flags.Changed("db-database") {
		cfg.Database.Database, _ = flags.GetString("db-database")
	}

	// NLP flags
	if cfg.NLP.Models == nil {
		cfg.NLP.Models = make(map[string]config.NLPModelConfig)
	}
	if flags.Changed("nlp-model") {
		m := cfg.NLP.Models["default"]
		m.Model, _ = flags.GetString("nlp-model")
		cfg.NLP.Models["default"] = m
	}
	if flags.Changed("nlp-api-key") {
		m := cfg.NLP.Models["default"]
		m.APIKey, _ = flags.GetString("nlp-api-key")
		cfg.NLP.Models["default"] = m
	}
	if flags.Changed("nlp-base-url") {
		m := cfg.NLP.Models["default"]
		m.BaseURL, _ = flags.GetString("nlp-base-url")
		cfg.NLP.Models["default"] = m
	}

	// Embedding flags
	if flags.Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = flags.GetString("embedding-provider")
	}
	if flags.Changed("embedding-model") {
		cfg.Embedding.Model, _ = flags.GetString("embedding-model")
	}

	// Telemetry flags
	if flags.Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = flags.GetString("telemetry-parquet-path")
	}
}

// newLogger builds the console logger and, when a telemetry path is
// configured, persists error records to parquet. The returned func flushes them.
func newLogger(cfg *config.Config) (*slog.Logger, func()) {
	level := logger.ParseLevel(cfg.Log.Level)

	var console slog.Handler
	if cfg.Log.Format == "json" {
		console = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		console = logger.NewColorHandler(os.Stderr, &logger.Options{Level: level})
	}

	if cfg.Telemetry.ParquetPath == "" {
		return slog.New(console), func() {}
	}

	parquetHandler, err := telemetry.NewParquetHandler(console, cfg.Telemetry.ParquetPath)
	if err != nil {
		l := slog.New(console)
		l.Warn("error tracking disabled", "path", cfg.Telemetry.ParquetPath, "error", err)
		return l, func() {}
	}
	return slog.New(parquetHandler), func() { _ = parquetHandler.Close() }
}

// newClient loads configuration and connects a GraphRecall client.
func newClient(cmd *cobra.Command, overrides ...func(*config.Config)) (*graphrecall.Client, *config.Config, *slog.Logger, func(), error) {
	cfg, err := loadConfig(cmd, overrides...)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	log, flush := newLogger(cfg)
	slog.SetDefault(log)

	client, err := graphrecall.NewClientFromConfig(cmd.Context(), cfg, log)
	if err != nil {
		flush()
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize graphrecall: %w", err)
	}

	closeAll := func() {
		if err := client.Close(context.WithoutCancel(cmd.Context())); err != nil {
			log.Warn("failed to close client", "error", err)
		}
		flush()
	}
	return client, cfg, log, closeAll, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
