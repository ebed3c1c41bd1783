package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gullak-app/gullak_backend/internal/apperrors"
	portsrepo "github.com/gullak-app/gullak_backend/internal/core/ports/repositories"
)

// Querier is the subset of pgx operations shared by *pgxpool.Pool and pgx.Tx.
// Repositories resolve one per call, which lets the same repository code run
// inside or outside a transaction transparently.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKey struct{}

// BaseRepository provides the pool and transaction plumbing shared by all
// repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction carried by ctx when present, the pool otherwise.
func (r *BaseRepository) db(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.Pool
}

// inTx reports whether ctx carries an open transaction.
func (r *BaseRepository) inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return ok
}

// PgxTxRunner is the ACID transaction strategy: the unit of work runs inside
// a single database transaction, and repositories called with the returned
// context join it.
type PgxTxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxTxRunner creates the ACID executor.
func NewPgxTxRunner(pool *pgxpool.Pool) *PgxTxRunner {
	return &PgxTxRunner{pool: pool}
}

var _ portsrepo.TxRunner = (*PgxTxRunner)(nil)

func (r *PgxTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// No-op once the transaction has committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// SequentialTxRunner is the best-effort strategy for deployments without a
// transactional backing store: the unit of work runs statement by statement
// with no atomicity guarantee. Concurrent deposits against one account can
// observe stale aggregates in this mode; that is an accepted trade-off, not a
// hidden one.
type SequentialTxRunner struct{}

// NewSequentialTxRunner creates the best-effort executor.
func NewSequentialTxRunner() SequentialTxRunner {
	return SequentialTxRunner{}
}

var _ portsrepo.TxRunner = SequentialTxRunner{}

func (SequentialTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
