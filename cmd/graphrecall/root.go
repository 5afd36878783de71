package graphrecall

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "graphrecall",
		Short: "GraphRecall: graph retrieval for RAG",
		Long: `GraphRecall answers questions from a knowledge graph of entities,
relationships and text chunks stored in Neo4j or Memgraph.

It expands queries into graph entities, runs local, global and hybrid
retrieval, and detects entity communities with GDS or in-process Louvain.`,
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.graphrecall.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	// Database flags
	flags.String("db-driver", "neo4j", "Database driver (neo4j, memgraph)")
	flags.String("db-uri", "bolt://localhost:7687", "Database URI")
	flags.String("db-username", "neo4j", "Database username")
	flags.String("db-password", "", "Database password")
	flags.String("db-database", "neo4j", "Database name (neo4j only)")

	// NLP flags
	flags.String("nlp-model", "gpt-4o-mini", "Model of the default NLP provider")
	flags.String("nlp-api-key", "", "API key of the default NLP provider")
	flags.String("nlp-base-url", "", "Base URL of the default NLP provider")

	// Embedding flags
	flags.String("embedding-provider", "openai", "Embedding provider (openai, embedeverything)")
	flags.String("embedding-model", "text-embedding-3-small", "Embedding model")

	// Telemetry flags
	flags.String("telemetry-parquet-path", "", "Directory for persisted error records")

	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".graphrecall" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".graphrecall")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
