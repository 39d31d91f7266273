package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-dow/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Computes activity statistics for the authenticated user",
	Long: `Computes the most active weekday and month, the average open issues,
pull request lifetime and collaborators across your repositories, and
optionally the average time between your commits in one repository.

GitHub's issues endpoint also returns pull requests. They are left out of
the open-issue average unless --include-pull-requests is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoName, _ := cmd.Flags().GetString("repo")
		robust, _ := cmd.Flags().GetBool("robust")
		formatName, _ := cmd.Flags().GetString("format")
		format, err := report.ParseFormat(formatName)
		if err != nil {
			return err
		}

		aggregator, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		results, err := aggregator.Aggregate(cmd.Context(), repoName, robust)
		if err != nil {
			return fmt.Errorf("failed to aggregate stats: %w", err)
		}
		return report.Write(cmd.OutOrStdout(), format, results)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("repo", "r", "", "Repository name for the average commit interval")
	statsCmd.Flags().Bool("robust", false, "Retry the commit fetch for the weekday statistic")
	statsCmd.Flags().StringP("format", "f", string(report.FormatJSON), "Output format: json or table")
}
