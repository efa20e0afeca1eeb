package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"refind/auth"
	"refind/bidding"
	"refind/config"
	"refind/db"
	"refind/httpapi"
	"refind/listing"
	"refind/logging"
	"refind/migrations"
	"refind/money"
	"refind/outbox"
	"refind/settlement"
)

func main() {
	configPath := flag.String("config", os.Getenv("REFIND_CONFIG"), "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Configure("info")
		logging.Error("load config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	logging.Configure(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logging.New(cfg.LogLevel)); err != nil {
		logging.Error("refind api stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.FileConfig, log *logrus.Logger) error {
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.Options{
		MaxConns:        cfg.MaxConns,
		LockTimeout:     cfg.LockTimeout,
		ApplicationName: "refind-api",
	})
	if err != nil {
		return fmt.Errorf("bootstrap database pool: %w", err)
	}
	defer pool.Close()

	applied, err := db.Migrate(ctx, pool, migrations.FS)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(applied) > 0 {
		logging.Info("migrations applied", map[string]any{"files": applied})
	}

	publisher, closePublisher, err := newPublisher(cfg.Events, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	events := outbox.NewWriter()
	authService := auth.NewService(auth.NewRepository(pool), cfg.JWTSecret).WithTokenTTL(cfg.TokenTTL)
	listingService := listing.NewService(pool, nil, events)
	biddingService := bidding.NewService(pool, nil, nil, events)
	settlementService := settlement.NewService(pool, nil, nil, nil, events).WithPricing(pricing(cfg))

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpapi.NewHandler(authService, listingService, biddingService, settlementService)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouter(handler, authService, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	relay := outbox.NewRelay(pool, nil, publisher, log.WithField("component", "outbox"), outbox.RelayConfig{
		BatchSize:   cfg.Events.RelayBatch,
		Interval:    cfg.Events.RelayInterval,
		MaxAttempts: cfg.Events.MaxAttempts,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(gctx)
	})
	g.Go(func() error {
		logging.Info("refind api listening", map[string]any{"addr": srv.Addr, "events": cfg.Events.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func pricing(cfg config.FileConfig) settlement.Pricing {
	return settlement.Pricing{
		TaxBasisPoints: cfg.TaxRateBasisPoints,
		Shipping:       money.Cents(cfg.ShippingCents),
	}
}

// newPublisher picks the outbox transport. The returned close func is always non-nil.
func newPublisher(cfg config.EventsConfig, log logrus.FieldLogger) (outbox.Publisher, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverRedis:
		p, err := outbox.NewRedisPublisher(outbox.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Stream:   cfg.RedisStream,
			MaxLen:   cfg.RedisMaxLen,
		})
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case config.DriverAMQP:
		p, err := outbox.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case config.DriverNone, "":
		return outbox.NewLogPublisher(log), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
