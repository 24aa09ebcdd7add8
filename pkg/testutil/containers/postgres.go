//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"welcome/internal/platform/database"
	"welcome/migrations"
)

const postgresImage = "postgres:18-alpine"

// PostgresContainer is a Postgres instance with the card schema applied
// through the same database.Open path the server uses.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("welcome_test"),
		postgres.WithUsername("welcome"),
		postgres.WithPassword("welcome_test_password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	cfg := database.DefaultConfig(dsn)
	cfg.Migrations = migrations.FS
	pool, err := database.Open(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	return &PostgresContainer{Container: container, DSN: dsn, DB: pool.DB}
}

// TruncateCards clears the cards table between tests.
func (p *PostgresContainer) TruncateCards(ctx context.Context) error {
	if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE cards"); err != nil {
		return fmt.Errorf("truncate cards: %w", err)
	}
	return nil
}
