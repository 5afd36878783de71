package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Expander configuration
	Expander ExpanderConfig `mapstructure:"expander"`

	// Community detection configuration
	Community CommunityConfig `mapstructure:"community"`

	// Search configuration
	Search SearchConfig `mapstructure:"search"`

	// Jobs configuration
	Jobs JobsConfig `mapstructure:"jobs"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
	UsagePath   string `mapstructure:"usage_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // neo4j, memgraph
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

// NLPConfig holds NLP configuration
type NLPConfig struct {
	// Models is a map of model configurations keyed by provider id ("default", "answer", ...)
	Models map[string]NLPModelConfig `mapstructure:"models"`

	// Routes selects a provider per task type
	Routes []RouteRule `mapstructure:"routes"`

	// MaxRetries bounds retries of retryable provider errors
	MaxRetries int `mapstructure:"max_retries"`
}

// NLPModelConfig holds configuration for a specific model
type NLPModelConfig struct {
	Provider    string  `mapstructure:"provider"` // openai
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// RouteRule routes a task type to a provider id
type RouteRule struct {
	TaskType string `mapstructure:"task_type"` // EXTRACTION, GENERATION, ANSWER_GENERATION
	Provider string `mapstructure:"provider"`
	Fallback string `mapstructure:"fallback"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // openai, embedeverything
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

// ExpanderConfig holds entity expansion settings. Values are clamped by the expander.
type ExpanderConfig struct {
	GraphExpansionHops int  `mapstructure:"graph_expansion_hops"`
	SynonymThreshold   int  `mapstructure:"synonym_threshold"`
	MaxSynonyms        int  `mapstructure:"max_synonyms"`
	EnableSynonyms     bool `mapstructure:"enable_synonyms"`
}

// CommunityConfig holds community detection settings
type CommunityConfig struct {
	Algorithm       string  `mapstructure:"algorithm"` // louvain, leiden, label_propagation
	Resolution      float64 `mapstructure:"resolution"`
	MinSize         int     `mapstructure:"min_size"`
	CacheSize       int     `mapstructure:"cache_size"`
	Workers         int     `mapstructure:"workers"`
	Seed            int64   `mapstructure:"seed"`
	PersistMode     string  `mapstructure:"persist_mode"`     // direct, staged
	RecheckInterval int     `mapstructure:"recheck_interval"` // in seconds
}

// SearchConfig holds search settings
type SearchConfig struct {
	TopK       int      `mapstructure:"top_k"`
	Namespaces []string `mapstructure:"namespaces"`
}

// JobsConfig holds detection job settings
type JobsConfig struct {
	Path     string `mapstructure:"path"`
	Interval int    `mapstructure:"interval"` // in seconds, 0 disables the scheduler
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.driver", "neo4j")
	viper.SetDefault("database.uri", "bolt://localhost:7687")
	viper.SetDefault("database.username", "neo4j")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.database", "neo4j")

	viper.SetDefault("nlp.models.default.provider", "openai")
	viper.SetDefault("nlp.models.default.model", "gpt-4o-mini")
	viper.SetDefault("nlp.models.default.temperature", 0.0)
	viper.SetDefault("nlp.models.default.max_tokens", 512)
	viper.SetDefault("nlp.max_retries", 3)

	viper.SetDefault("embedding.provider", "openai")
	viper.SetDefault("embedding.model", "text-embedding-3-small")
	viper.SetDefault("embedding.dimensions", 1536)

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 1)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	viper.SetDefault("expander.graph_expansion_hops", 1)
	viper.SetDefault("expander.synonym_threshold", 10)
	viper.SetDefault("expander.max_synonyms", 3)
	viper.SetDefault("expander.enable_synonyms", true)

	viper.SetDefault("community.algorithm", "louvain")
	viper.SetDefault("community.resolution", 1.0)
	viper.SetDefault("community.min_size", 3)
	viper.SetDefault("community.cache_size", 10)
	viper.SetDefault("community.workers", 2)
	viper.SetDefault("community.seed", 42)
	viper.SetDefault("community.persist_mode", "direct")
	viper.SetDefault("community.recheck_interval", 600)

	viper.SetDefault("search.top_k", 10)

	viper.SetDefault("jobs.interval", 0)

	// Telemetry and job store defaults
	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.graphrecall/telemetry", home))
		viper.SetDefault("telemetry.usage_path", fmt.Sprintf("%s/.graphrecall/usage", home))
		viper.SetDefault("jobs.path", fmt.Sprintf("%s/.graphrecall/jobs", home))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if config.NLP.Models == nil {
		config.NLP.Models = make(map[string]NLPModelConfig)
	}

	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		for name, model := range config.NLP.Models {
			if model.Provider == "openai" && model.APIKey == "" {
				model.APIKey = apiKey
				config.NLP.Models[name] = model
			}
		}
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
	}

	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}
	if dbDriver := os.Getenv("DB_DRIVER"); dbDriver != "" {
		config.Database.Driver = dbDriver
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
	if path := os.Getenv("GRAPHRECALL_JOBS_PATH"); path != "" {
		config.Jobs.Path = path
	}
}
