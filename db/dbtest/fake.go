// Package dbtest provides in-memory stand-ins for pgx pools and transactions.
// Repositories are faked at the interface level; these fakes only record
// transaction boundaries and raw Exec calls.
package dbtest

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ExecCall is one recorded Tx.Exec invocation.
type ExecCall struct {
	SQL  string
	Args []any
}

// Pool hands out a fresh Tx per Begin.
type Pool struct {
	BeginErr error
	Txs      []*Tx
}

func (p *Pool) Begin(context.Context) (pgx.Tx, error) {
	if p.BeginErr != nil {
		return nil, p.BeginErr
	}
	tx := &Tx{}
	p.Txs = append(p.Txs, tx)
	return tx, nil
}

// Last returns the most recently started transaction, or nil.
func (p *Pool) Last() *Tx {
	if len(p.Txs) == 0 {
		return nil
	}
	return p.Txs[len(p.Txs)-1]
}

func (p *Pool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("dbtest: Pool.Exec not implemented")
}

func (p *Pool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("dbtest: Pool.Query not implemented")
}

func (p *Pool) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("dbtest: Pool.QueryRow not implemented")
}

// Tx records commit/rollback and Exec calls.
type Tx struct {
	Committed  bool
	RolledBack bool
	CommitErr  error
	ExecErr    error
	Execs      []ExecCall
}

func (f *Tx) Begin(context.Context) (pgx.Tx, error) {
	return nil, errors.New("dbtest: nested transactions not supported")
}

func (f *Tx) Commit(context.Context) error {
	if f.CommitErr != nil {
		return f.CommitErr
	}
	f.Committed = true
	return nil
}

func (f *Tx) Rollback(context.Context) error {
	if !f.Committed {
		f.RolledBack = true
	}
	return nil
}

func (f *Tx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("dbtest: CopyFrom not implemented")
}

func (f *Tx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("dbtest: SendBatch not implemented")
}

func (f *Tx) LargeObjects() pgx.LargeObjects {
	panic("dbtest: LargeObjects not implemented")
}

func (f *Tx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	panic("dbtest: Prepare not implemented")
}

func (f *Tx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.Execs = append(f.Execs, ExecCall{SQL: sql, Args: args})
	if f.ExecErr != nil {
		return pgconn.CommandTag{}, f.ExecErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *Tx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("dbtest: Query not implemented")
}

func (f *Tx) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("dbtest: QueryRow not implemented")
}

func (f *Tx) Conn() *pgx.Conn {
	return nil
}

// Outbox records enqueued events per transaction.
type Outbox struct {
	Err    error
	Events []Event
}

type Event struct {
	Tx      pgx.Tx
	Topic   string
	Payload map[string]any
}

func (o *Outbox) Enqueue(_ context.Context, tx pgx.Tx, topic string, payload map[string]any) error {
	if o.Err != nil {
		return o.Err
	}
	o.Events = append(o.Events, Event{Tx: tx, Topic: topic, Payload: payload})
	return nil
}

// Topics lists enqueued topics in order.
func (o *Outbox) Topics() []string {
	out := make([]string, 0, len(o.Events))
	for _, e := range o.Events {
		out = append(out, e.Topic)
	}
	return out
}
