package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/terra-clan/techdesk/internal/config"
)

// Open returns the repository selected by cfg.Driver. PostgreSQL is
// migrated before the pool is opened.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Repository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on restart")
		return NewMemoryRepository(), nil

	case config.DriverPostgres:
		slog.Info("running database migrations", "dir", cfg.MigrationsDir)
		if err := MigrateFromDSN(ctx, cfg.DSN, cfg.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		repo, err := NewPostgresRepository(ctx, PostgresConfig{
			DSN:          cfg.DSN,
			MaxOpenConns: int32(cfg.MaxOpenConns),
			MaxIdleConns: int32(cfg.MaxIdleConns),
		})
		if err != nil {
			return nil, err
		}
		slog.Info("database connected successfully")
		return repo, nil
	}

	return nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
}
