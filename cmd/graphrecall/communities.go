package graphrecall

import (
	"fmt"

	"github.com/spf13/cobra"
)

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Inspect persisted communities",
}

var communitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List communities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		minSize, _ := cmd.Flags().GetInt("min-size")

		client, _, _, closeAll, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		communities, err := client.ListCommunities(cmd.Context(), minSize)
		if err != nil {
			return fmt.Errorf("failed to list communities: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), communities)
	},
}

var communitiesGetCmd = &cobra.Command{
	Use:   "get [community-id]",
	Short: "Show one community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _, closeAll, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		c, err := client.GetCommunity(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), c)
	},
}

var communitiesRelatedCmd = &cobra.Command{
	Use:   "related [community-id]",
	Short: "List communities connected to a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topK, _ := cmd.Flags().GetInt("top-k")

		client, _, _, closeAll, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		related, err := client.FindRelatedCommunities(cmd.Context(), args[0], topK)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), related)
	},
}

var communitiesStatsCmd = &cobra.Command{
	Use:   "stats [community-id]",
	Short: "Show size, internal edges, density and entity types of a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, _, closeAll, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer closeAll()

		stats, err := client.GetCommunityStatistics(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), stats)
	},
}

func init() {
	rootCmd.AddCommand(communitiesCmd)
	communitiesCmd.AddCommand(communitiesListCmd, communitiesGetCmd, communitiesRelatedCmd, communitiesStatsCmd)

	communitiesListCmd.Flags().Int("min-size", 1, "Minimum community size")
	communitiesRelatedCmd.Flags().Int("top-k", 5, "Number of related communities")
}
