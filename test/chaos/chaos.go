package chaos

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Kills counts terminated backends.
var Kills atomic.Int64

// TerminateRandomBackend now and then kills one backend whose application_name
// is appName. Work in flight on it must roll back without breaking an invariant.
func TerminateRandomBackend(ctx context.Context, pool *pgxpool.Pool, appName string, stop <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if rand.Intn(3) != 0 {
				continue
			}
			var killed bool
			err := pool.QueryRow(ctx, `
                SELECT COALESCE(bool_or(pg_terminate_backend(pid)), false)
                FROM (
                    SELECT pid FROM pg_stat_activity
                    WHERE datname = current_database()
                      AND application_name = $1
                      AND pid <> pg_backend_pid()
                    ORDER BY random() LIMIT 1
                ) victim`, appName).Scan(&killed)
			if err == nil && killed {
				Kills.Add(1)
			}
		}
	}
}
