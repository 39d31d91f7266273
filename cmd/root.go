// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-dow/internal/config"
	"github.com/naka-gawa/github-dow/internal/gateway"
	"github.com/naka-gawa/github-dow/internal/logging"
	"github.com/naka-gawa/github-dow/internal/usecase"
)

var rootCmd = &cobra.Command{
	Use:   "github-dow",
	Short: "A CLI tool to summarise your own GitHub activity.",
	Long: `github-dow summarises the activity of the authenticated GitHub user
across the repositories they own: the weekday and month they commit most,
the average time between commits, and averages of open issues, pull request
lifetime and collaborators. The token is read from GITHUB_TOKEN.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("base-url", "", "GitHub Enterprise REST base URL")
	rootCmd.PersistentFlags().String("graphql-url", "", "GitHub Enterprise GraphQL endpoint")
	rootCmd.PersistentFlags().Int("per-page", gateway.DefaultPerPage, "Page size for list requests (1-100)")
	rootCmd.PersistentFlags().String("timezone", "Local", "IANA time zone used for weekdays and months")
	rootCmd.PersistentFlags().Int("retry-attempts", usecase.DefaultMaxAttempts, "Attempts for the robust weekday statistic")
	rootCmd.PersistentFlags().Duration("rate-limit-sleep", 0, "Longest single wait on a secondary rate limit (default 1h)")
	rootCmd.PersistentFlags().Bool("include-pull-requests", false, "Count pull requests as issues, as the GitHub issues endpoint does")
}

// setup loads configuration and wires the gateway, logger and aggregator.
func setup(cmd *cobra.Command) (*usecase.Aggregator, *zap.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	// Inject dependencies.
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:               cfg.Token,
		BaseURL:             cfg.BaseURL,
		GraphQLURL:          cfg.GraphQLURL,
		PerPage:             cfg.PerPage,
		RateLimitSleep:      cfg.RateLimitSleep,
		IncludePullRequests: cfg.IncludePullRequests,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	aggregator := usecase.NewAggregator(githubGateway, logger,
		usecase.WithLocation(loc),
		usecase.WithMaxAttempts(cfg.RetryAttempts),
	)
	return aggregator, logger, nil
}
