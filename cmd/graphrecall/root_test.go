package graphrecall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrecall/pkg/config"
)

func TestCommandsRegistered(t *testing.T) {
	for _, path := range [][]string{
		{"server"},
		{"detect"},
		{"search"},
		{"communities", "list"},
		{"communities", "get"},
		{"communities", "related"},
		{"communities", "stats"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestOverrideConfigWithFlags(t *testing.T) {
	cmd := searchCmd
	cmd.Flags().AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, cmd.Flags().Set("db-uri", "bolt://graph:7687"))
	require.NoError(t, cmd.Flags().Set("db-driver", "memgraph"))
	require.NoError(t, cmd.Flags().Set("nlp-model", "gpt-4o"))

	cfg := &config.Config{}
	overrideConfigWithFlags(cmd, cfg)

	assert.Equal(t, "bolt://graph:7687", cfg.Database.URI)
	assert.Equal(t, "memgraph", cfg.Database.Driver)
	assert.Equal(t, "gpt-4o", cfg.NLP.Models["default"].Model)
	assert.Empty(t, cfg.Embedding.Provider)
}

func TestSearchRejectsUnknownMode(t *testing.T) {
	searchMode = "fuzzy"
	defer func() { searchMode = "hybrid" }()

	err := runSearch(searchCmd, []string{"what", "uses", "neo4j"})
	assert.ErrorContains(t, err, "unsupported search mode")
}

func TestDetectRejectsUnknownAlgorithm(t *testing.T) {
	detectAlgorithm = "girvan_newman"
	defer func() { detectAlgorithm = "" }()

	err := runDetect(detectCmd, nil)
	assert.Error(t, err)
}
