package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/repost-crawler/internal/repository"
)

// Gateway owns scoped acquisition of pooled connections. Every write unit
// of work runs inside WithTx: one connection, one transaction, commit on
// normal return, rollback on any failure, release on every exit path.
// Single-statement reads go through the pool directly without an explicit
// transaction.
type Gateway struct {
	pool *pgxpool.Pool
}

// NewGateway creates a new Gateway backed by the given pool.
func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool}
}

// WithTx acquires a connection, begins a transaction and runs fn inside it.
// A nil return from fn commits; any error rolls back and propagates.
func (g *Gateway) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	conn, err := g.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrConnectionUnavailable, err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return wrapQueryErr(fmt.Errorf("begin: %w", err))
	}
	// No-op once Commit has succeeded.
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return wrapQueryErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapQueryErr(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// wrapQueryErr tags an execution failure with ErrQueryFailed, keeping the
// underlying cause in the chain. Already-classified errors pass through.
func wrapQueryErr(err error) error {
	if errors.Is(err, repository.ErrConnectionUnavailable) ||
		errors.Is(err, repository.ErrQueryFailed) ||
		errors.Is(err, repository.ErrTagConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", repository.ErrQueryFailed, err)
}
