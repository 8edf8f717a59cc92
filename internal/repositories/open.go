// Package repositories selects and opens the configured storage backend.
package repositories

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/hotel_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hotel_ledger/internal/platform/config"
	"github.com/SscSPs/hotel_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/hotel_ledger/internal/repositories/memory"
	"github.com/SscSPs/hotel_ledger/pkg/database"
)

// Open builds the repository provider for cfg.StorageBackend. For PostgreSQL
// it applies pending migrations first when migrate is set. The returned
// close func releases the backend and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil

	case config.StoragePostgres:
		if migrate {
			logger.Info("Running database migrations...")
			applied, err := database.MigrateUp(cfg.DatabaseURL, cfg.MigrationsPath, logger)
			if err != nil {
				return portsrepo.RepositoryProvider{}, func() {}, err
			}
			if applied {
				logger.Info("Database migrations applied successfully.")
			} else {
				logger.Info("No new migrations to apply.")
			}
		}

		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, func() {}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(dbPool), dbPool.Close, nil

	default:
		return portsrepo.RepositoryProvider{}, func() {}, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
