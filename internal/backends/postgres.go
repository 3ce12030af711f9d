package backends

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresBackend probes PostgreSQL through database/sql on its own small pool,
// independent of the repository's pgx pool
type PostgresBackend struct {
	BaseBackend
	db *sql.DB
}

// NewPostgresBackend opens a lib/pq connection pool for health probes
func NewPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresBackend{
		BaseBackend: BaseBackend{backendType: "postgres"},
		db:          db,
	}, nil
}

// HealthCheck runs a trivial query
func (b *PostgresBackend) HealthCheck(ctx context.Context) error {
	var one int
	if err := b.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to query postgres: %w", err)
	}
	return nil
}

// Close closes the probe pool
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
