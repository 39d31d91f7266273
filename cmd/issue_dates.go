package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-dow/internal/report"
)

var issueDatesCmd = &cobra.Command{
	Use:   "issue-dates",
	Short: "Lists when each closed issue in your repositories was opened",
	RunE: func(cmd *cobra.Command, args []string) error {
		aggregator, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		dates, err := aggregator.ClosedIssueCreationDates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list closed issues: %w", err)
		}
		return report.WriteDates(cmd.OutOrStdout(), dates)
	},
}

func init() {
	rootCmd.AddCommand(issueDatesCmd)
}
