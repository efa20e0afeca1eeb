package test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"refind/db/dbtest"
	"refind/listing"
	"refind/money"
	"refind/outbox"
	"refind/test/actors"
	"refind/test/chaos"
	"refind/test/infra"
	"refind/test/oracles"
)

var (
	flDuration    = flag.Duration("duration", 30*time.Second, "how long to run stress")
	flConcurrency = flag.Int("concurrency", 8, "number of concurrent bidders and settlers")
	flSeed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flDSN         = flag.String("dsn", "", "existing Postgres DSN to reuse (avoids Docker)")
)

const actorApp = "refind-stress-actors"

func TestMarketplaceConcurrency(t *testing.T) {
	if testing.Short() {
		t.Skip("stress test skipped in -short mode")
	}
	seed := *flSeed
	rand.Seed(seed)

	ctx, cancel := context.WithTimeout(context.Background(), *flDuration+90*time.Second)
	defer cancel()

	if *flDSN == "" && os.Getenv("STRESS_TEST_PG_DSN") == "" && !dockerAvailable(ctx) {
		t.Skip("no database: set -dsn or STRESS_TEST_PG_DSN, or run Docker")
	}
	database, dsn, err := infra.StartDatabase(ctx, *flDSN)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	defer database.Close(context.Background())

	env, teardown, err := infra.Prepare(ctx, dsn, database.Shared())
	if err != nil {
		t.Fatalf("prepare database: %v", err)
	}
	defer func() {
		if err := teardown(context.Background()); err != nil {
			t.Logf("teardown warning: %v", err)
		}
	}()

	pool, err := env.Pool(ctx, actorApp, int32(4 * *flConcurrency), 2*time.Second)
	if err != nil {
		t.Fatalf("actor pool: %v", err)
	}
	defer pool.Close()

	checks, err := env.Pool(ctx, "refind-stress-oracles", 4, 0)
	if err != nil {
		t.Fatalf("oracle pool: %v", err)
	}
	defer checks.Close()

	svc := actors.NewServices(pool, time.Hour)
	seeded := mustSeed(t, ctx, checks, svc)

	var stats actors.Stats
	log := logrus.New()
	log.SetOutput(io.Discard)
	relay := outbox.NewRelay(pool, nil, actors.NewFlakyPublisher(5, &stats), log, outbox.RelayConfig{BatchSize: 25, MaxAttempts: 3})

	g, gctx := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	for i := 0; i < *flConcurrency; i++ {
		worker := i
		g.Go(func() error {
			return actors.Bidder(gctx, svc, seeded.auctions, seeded.buyers, &stats, stop)
		})
		g.Go(func() error {
			return actors.Settler(gctx, svc, worker, seeded.fixed, seeded.closing, seeded.buyers, &stats, stop)
		})
	}
	g.Go(func() error { return actors.Moderator(gctx, svc, seeded.sellers, &stats, stop) })
	g.Go(func() error { return actors.Retractor(gctx, svc, seeded.fixed, &stats, stop) })
	g.Go(func() error { return actors.OutboxRelay(gctx, relay, &stats, stop) })
	go chaos.TerminateRandomBackend(gctx, checks, actorApp, stop)

	deadline := time.Now().Add(*flDuration)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	check := func() {
		name, row, err := oracles.Run(ctx, checks)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			t.Fatalf("oracle error: %v", err)
		}
		if name != "" {
			dumpRecent(t, ctx, checks)
			t.Fatalf("oracle %s failed. First row: %s (seed=%d)", name, row, seed)
		}
	}

loop:
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			check()
		}
	}

	close(stop)
	if err := g.Wait(); err != nil {
		t.Fatalf("actors errored: %v", err)
	}
	check()
	t.Logf("seed=%d kills=%d %s", seed, chaos.Kills.Load(), stats.String())
	if stats.Bids.Load() == 0 || stats.Orders.Load() == 0 {
		t.Fatalf("stress run made no progress: %s", stats.String())
	}
}

func dockerAvailable(ctx context.Context) bool {
	if _, err := exec.LookPath("docker"); err != nil {
		return false
	}
	c := exec.CommandContext(ctx, "docker", "info")
	c.Stdout = io.Discard
	c.Stderr = io.Discard
	return c.Run() == nil
}

type seedIDs struct {
	sellers  []string
	buyers   []string
	fixed    []string
	auctions []string
	// closing auctions are already over on the settlement clock.
	closing []string
}

func mustSeed(t *testing.T, ctx context.Context, pool *pgxpool.Pool, svc actors.Services) seedIDs {
	t.Helper()
	var s seedIDs
	for i := 0; i < 3; i++ {
		s.sellers = append(s.sellers, dbtest.SeedUser(ctx, t, pool, "seller"))
	}
	for i := 0; i < 6; i++ {
		s.buyers = append(s.buyers, dbtest.SeedUser(ctx, t, pool, "buyer"))
	}

	approve := func(params listing.CreateParams) string {
		l, err := svc.Listings.Create(ctx, params)
		if err != nil {
			t.Fatalf("seed listing: %v", err)
		}
		if _, err := svc.Listings.Moderate(ctx, l.ID, listing.DecisionApprove); err != nil {
			t.Fatalf("approve listing: %v", err)
		}
		return l.ID
	}

	for i := 0; i < 20; i++ {
		price := money.Cents(5000 + 100*i)
		s.fixed = append(s.fixed, approve(listing.CreateParams{
			SellerID:    s.sellers[i%len(s.sellers)],
			Title:       fmt.Sprintf("Oak table %d", i),
			Description: "Solid oak, lightly used",
			Type:        listing.TypeFixedPrice,
			Price:       &price,
		}))
	}
	for i := 0; i < 8; i++ {
		start := money.Cents(1000)
		// Half the auctions stay open on every clock; the rest close early for settlers.
		end := time.Now().Add(2 * time.Hour)
		if i%2 == 1 {
			end = time.Now().Add(10 * time.Minute)
		}
		id := approve(listing.CreateParams{
			SellerID:       s.sellers[i%len(s.sellers)],
			Title:          fmt.Sprintf("Vintage lamp %d", i),
			Description:    "Brass, working condition",
			Type:           listing.TypeAuction,
			StartingBid:    &start,
			AuctionEndTime: &end,
		})
		s.auctions = append(s.auctions, id)
		if i%2 == 1 {
			s.closing = append(s.closing, id)
		}
	}
	return s
}

func dumpRecent(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()
	dumps := []struct {
		name string
		sql  string
	}{
		{"bids", `SELECT listing_id, bidder_id, amount_cents, seq FROM bids ORDER BY seq DESC LIMIT 50`},
		{"orders", `SELECT id, listing_id, buyer_id, subtotal_cents, amount_cents, status FROM orders ORDER BY created_at DESC LIMIT 50`},
		{"listings", `SELECT id, listing_type, status, current_high_cents FROM listings ORDER BY updated_at DESC LIMIT 50`},
		{"outbox", `SELECT id, topic, status, attempts, created_at FROM outbox ORDER BY created_at DESC LIMIT 50`},
	}
	for _, d := range dumps {
		rows, err := pool.Query(ctx, d.sql)
		if err != nil {
			t.Logf("dump %s error: %v", d.name, err)
			continue
		}
		cols := rows.FieldDescriptions()
		t.Logf("-- %s --", d.name)
		for rows.Next() {
			vals, _ := rows.Values()
			buf := make([]any, 0, len(vals))
			for i := range vals {
				buf = append(buf, fmt.Sprintf("%s=%v", cols[i].Name, vals[i]))
			}
			t.Logf("%s", buf)
		}
		rows.Close()
	}
}
