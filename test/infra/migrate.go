package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"refind/db"
	"refind/migrations"
)

// Env is a migrated database a stress run connects to. Schema is empty when
// the run owns the whole database.
type Env struct {
	DSN    string
	Schema string
}

// Prepare applies the embedded migrations. When isolate is true they go into a
// per-run schema that the returned teardown drops.
func Prepare(ctx context.Context, dsn string, isolate bool) (Env, func(context.Context) error, error) {
	env := Env{DSN: dsn}
	teardown := func(context.Context) error { return nil }

	if isolate {
		env.Schema = fmt.Sprintf("stress_run_%d", time.Now().UnixNano())
		ident := pgx.Identifier{env.Schema}.Sanitize()

		conn, err := pgx.Connect(ctx, dsn)
		if err != nil {
			return Env{}, nil, fmt.Errorf("connect for schema: %w", err)
		}
		_, err = conn.Exec(ctx, "CREATE SCHEMA "+ident)
		conn.Close(ctx)
		if err != nil {
			return Env{}, nil, fmt.Errorf("create schema %s: %w", env.Schema, err)
		}

		teardown = func(ctx context.Context) error {
			dropConn, err := pgx.Connect(ctx, dsn)
			if err != nil {
				return err
			}
			defer dropConn.Close(ctx)
			_, err = dropConn.Exec(ctx, "DROP SCHEMA IF EXISTS "+ident+" CASCADE")
			return err
		}
	}

	pool, err := env.Pool(ctx, "refind-stress-migrate", 2, 0)
	if err != nil {
		_ = teardown(ctx)
		return Env{}, nil, err
	}
	defer pool.Close()

	if _, err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		_ = teardown(ctx)
		return Env{}, nil, fmt.Errorf("migrate: %w", err)
	}
	return env, teardown, nil
}

// Pool opens a pool tagged with appName so chaos can target it.
func (e Env) Pool(ctx context.Context, appName string, maxConns int32, lockTimeout time.Duration) (*pgxpool.Pool, error) {
	opts := db.Options{
		MaxConns:        maxConns,
		LockTimeout:     lockTimeout,
		ApplicationName: appName,
	}
	if e.Schema != "" {
		opts.SearchPath = e.Schema + ", public"
	}
	return db.NewPool(ctx, e.DSN, opts)
}
