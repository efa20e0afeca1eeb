package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"refind/db"
	"refind/migrations"
)

// Open connects to DATABASE_URL and migrates a throwaway schema that is
// dropped when the test ends. The test is skipped when DATABASE_URL is empty.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("set DATABASE_URL to a disposable PostgreSQL to run store tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, cleanup, err := OpenIsolated(ctx, dsn, fmt.Sprintf("it_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("open isolated schema: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
		if err := cleanup(context.Background()); err != nil {
			t.Logf("drop schema: %v", err)
		}
	})
	return pool
}

// OpenIsolated creates schema, pins every pooled connection to it and applies
// migrations there. cleanup drops the schema.
func OpenIsolated(ctx context.Context, dsn, schema string) (*pgxpool.Pool, func(context.Context) error, error) {
	quoted := pgx.Identifier{schema}.Sanitize()
	execAdmin := func(ctx context.Context, sql string) error {
		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return err
		}
		defer conn.Close(ctx)
		_, err = conn.Exec(ctx, sql)
		return err
	}

	if err := execAdmin(ctx, "CREATE SCHEMA "+quoted); err != nil {
		return nil, nil, fmt.Errorf("dbtest: create schema %s: %w", schema, err)
	}
	cleanup := func(ctx context.Context) error {
		return execAdmin(ctx, "DROP SCHEMA IF EXISTS "+quoted+" CASCADE")
	}

	pool, err := db.NewPool(ctx, dsn, db.Options{
		ApplicationName: "refind-test",
		SearchPath:      schema + ", public",
	})
	if err != nil {
		_ = cleanup(ctx)
		return nil, nil, err
	}
	if _, err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		pool.Close()
		_ = cleanup(ctx)
		return nil, nil, err
	}
	return pool, cleanup, nil
}

// SeedUser inserts a user and returns its id.
func SeedUser(ctx context.Context, t testing.TB, q db.Querier, role string) string {
	t.Helper()
	var id string
	err := q.QueryRow(ctx,
		`INSERT INTO users (email, full_name, password_hash, role, is_admin) VALUES ($1, $2, 'x', $3::user_role, $3 = 'admin') RETURNING id::text`,
		fmt.Sprintf("%s+%d@example.com", role, time.Now().UnixNano()), "Test "+role, role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}
