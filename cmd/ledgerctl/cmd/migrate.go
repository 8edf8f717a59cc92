package cmd

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/hotel_ledger/internal/platform/config"
	"github.com/SscSPs/hotel_ledger/pkg/database"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if cfg.StorageBackend != config.StoragePostgres {
			return fmt.Errorf("migrate requires STORAGE_BACKEND=%s, got %s", config.StoragePostgres, cfg.StorageBackend)
		}

		applied, err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath, slog.Default())
		if err != nil {
			return err
		}
		if applied {
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No new migrations to apply.")
		}
		return nil
	},
}
