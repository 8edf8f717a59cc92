// Package cmd provides CLI commands for ledgerctl.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/platform/config"
	"github.com/SscSPs/hotel_ledger/internal/repositories"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate the hotel ledger database",
	Long: `ledgerctl runs maintenance tasks against the ledger storage
configured through the same environment variables as the API server.

Example:
  ledgerctl migrate
  ledgerctl seed-accounts --file configs/chart_of_accounts.yaml
  ledgerctl balance 1000 --as-of 2026-10-31`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)

		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load before the environment (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(balanceCmd)
}

// openStorage loads configuration and opens the configured backend.
func openStorage(ctx context.Context, migrate bool) (*config.Config, portsrepo.RepositoryProvider, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, portsrepo.RepositoryProvider{}, func() {}, fmt.Errorf("failed to load configuration: %w", err)
	}
	repos, closeRepos, err := repositories.Open(ctx, cfg, slog.Default(), migrate)
	if err != nil {
		return nil, portsrepo.RepositoryProvider{}, func() {}, err
	}
	return cfg, repos, closeRepos, nil
}
