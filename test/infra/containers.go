package infra

import (
	"context"
	"os"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// Database is the Postgres a stress run talks to. container is nil when the
// DSN came from the caller and nothing needs to be torn down.
type Database struct {
	container *postgres.PostgresContainer
}

// StartDatabase returns dsn when set, then STRESS_TEST_PG_DSN, and otherwise
// boots a throwaway postgres:16-alpine container.
func StartDatabase(ctx context.Context, dsn string) (*Database, string, error) {
	if dsn == "" {
		dsn = os.Getenv("STRESS_TEST_PG_DSN")
	}
	if dsn != "" {
		return &Database{}, dsn, nil
	}

	c, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("refind_stress"),
		postgres.WithUsername("refind"),
		postgres.WithPassword("refind"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", err
	}
	connStr, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, "", err
	}
	return &Database{container: c}, connStr, nil
}

// Shared reports whether the database was supplied from outside.
func (d *Database) Shared() bool {
	return d == nil || d.container == nil
}

func (d *Database) Close(ctx context.Context) error {
	if d.Shared() {
		return nil
	}
	return d.container.Terminate(ctx)
}
