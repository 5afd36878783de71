package graphrecall

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge graph",
	Long: `Search the knowledge graph for a natural-language query.

Modes:
  local   passages mentioning the entities expanded from the query
  global  entity-type topics for the expanded entities
  hybrid  both, plus relationships and a generated answer`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchMode       string
	searchTopK       int
	searchNamespaces []string
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchMode, "mode", "hybrid", "Search mode (local, global, hybrid)")
	searchCmd.Flags().IntVar(&searchTopK, "top-k", 10, "Number of results")
	searchCmd.Flags().StringSliceVar(&searchNamespaces, "namespace", nil, "Namespaces to search (repeatable)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	mode := strings.ToLower(searchMode)
	switch mode {
	case "local", "global", "hybrid":
	default:
		return fmt.Errorf("unsupported search mode: %s", searchMode)
	}

	client, _, _, closeAll, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer closeAll()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	switch mode {
	case "local":
		entities, metadata, err := client.LocalSearch(ctx, query, searchTopK, searchNamespaces)
		if err != nil {
			return fmt.Errorf("local search failed: %w", err)
		}
		return printJSON(out, map[string]any{"query": query, "entities": entities, "metadata": metadata})
	case "global":
		topics, err := client.GlobalSearch(ctx, query, searchTopK, searchNamespaces)
		if err != nil {
			return fmt.Errorf("global search failed: %w", err)
		}
		return printJSON(out, map[string]any{"query": query, "topics": topics})
	default:
		result, err := client.HybridSearch(ctx, query, searchTopK, searchNamespaces)
		if err != nil {
			return fmt.Errorf("hybrid search failed: %w", err)
		}
		return printJSON(out, result)
	}
}
