package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"refind/db"
)

// Relay drains pending outbox rows to a Publisher.
type Relay struct {
	pool        db.TxBeginner
	store       Store
	publisher   Publisher
	log         logrus.FieldLogger
	batchSize   int
	interval    time.Duration
	maxAttempts int
}

type RelayConfig struct {
	BatchSize   int
	Interval    time.Duration
	MaxAttempts int
}

func NewRelay(pool db.TxBeginner, store Store, publisher Publisher, log logrus.FieldLogger, cfg RelayConfig) *Relay {
	if store == nil {
		store = NewStore()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &Relay{
		pool:        pool,
		store:       store,
		publisher:   publisher,
		log:         log,
		batchSize:   cfg.BatchSize,
		interval:    cfg.Interval,
		maxAttempts: cfg.MaxAttempts,
	}
}

// Run processes batches until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.log.WithError(err).Warn("outbox relay batch failed")
		}
		if n == r.batchSize {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce claims one batch and publishes it. It returns the number of rows claimed.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("outbox: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	msgs, err := r.store.ClaimPending(ctx, tx, r.batchSize)
	if err != nil {
		return 0, err
	}

	for _, m := range msgs {
		if pubErr := r.publisher.Publish(ctx, m); pubErr != nil {
			dead := m.Attempts+1 >= r.maxAttempts
			r.log.WithFields(logrus.Fields{
				"event_id": m.ID,
				"topic":    m.Topic,
				"attempts": m.Attempts + 1,
				"dead":     dead,
			}).WithError(pubErr).Warn("outbox publish failed")
			if err := r.store.MarkFailed(ctx, tx, m.ID, pubErr.Error(), dead); err != nil {
				return 0, err
			}
			continue
		}
		if err := r.store.MarkProcessed(ctx, tx, m.ID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("outbox: commit batch: %w", err)
	}
	return len(msgs), nil
}
