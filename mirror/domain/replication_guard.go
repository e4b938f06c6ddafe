package domain

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"encore.dev/beta/errs"

	"github.com/webhookdb/mirror/mirror/store"
)

// TxBeginner is satisfied by *pgxpool.Pool and by pgx.Tx, where Begin opens a savepoint.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor owns the transaction boundary for record reconciliation.
//
// WithinTx runs fn against a store bound to a fresh transaction and commits when fn
// returns nil. Any error or panic rolls the transaction back, releasing row locks.
//
// Batch opens one outer transaction and hands fn a Transactor whose WithinTx scopes are
// savepoints inside it. Nothing is visible to other sessions until fn returns nil.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(st *store.Store) error) error
	Batch(ctx context.Context, fn func(t Transactor) error) error
}

type ReplicationGuard struct {
	db    TxBeginner
	store *store.Store
}

func NewReplicationGuard(db TxBeginner, st *store.Store) *ReplicationGuard {
	return &ReplicationGuard{
		db:    db,
		store: st,
	}
}

func (g *ReplicationGuard) WithinTx(ctx context.Context, fn func(st *store.Store) error) error {
	tx, err := g.db.Begin(ctx)
	if err != nil {
		return &errs.Error{Code: errs.Internal, Message: "failed to start transaction"}
	}
	defer tx.Rollback(ctx)

	if err := fn(g.store.WithTx(tx)); err != nil {
		return classifyStorageError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyStorageError(err)
	}
	return nil
}

func (g *ReplicationGuard) Batch(ctx context.Context, fn func(t Transactor) error) error {
	tx, err := g.db.Begin(ctx)
	if err != nil {
		return &errs.Error{Code: errs.Internal, Message: "failed to start transaction"}
	}
	defer tx.Rollback(ctx)

	if err := fn(&ReplicationGuard{db: tx, store: g.store}); err != nil {
		return classifyStorageError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyStorageError(err)
	}
	return nil
}

// classifyStorageError maps Postgres failures onto API error codes and leaves
// every other error untouched.
func classifyStorageError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.DeadlockDetected, pgerrcode.SerializationFailure, pgerrcode.LockNotAvailable:
		return &errs.Error{Code: errs.Aborted, Message: "concurrent update of the same record, retry the request"}
	default:
		return &errs.Error{Code: errs.Internal, Message: "failed to persist record"}
	}
}
