package entity

import (
	"context"
	"errors"
	"time"

	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/domain"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/store/issues"
	"github.com/webhookdb/mirror/mirror/store/repositories"
	"github.com/webhookdb/mirror/mirror/store/users"
)

// ReconcileOptions carries the provenance of a snapshot.
// A zero FetchedAt means the snapshot was fetched now.
type ReconcileOptions struct {
	Channel   model.Channel
	FetchedAt time.Time
}

type Business interface {
	ReconcileUser(ctx context.Context, snapshot model.Snapshot, opts ReconcileOptions) (*model.User, error)
	ReconcileIssue(ctx context.Context, snapshot model.Snapshot, opts ReconcileOptions) (*model.Issue, error)
	ReconcileRepository(ctx context.Context, snapshot model.Snapshot, opts ReconcileOptions) (*model.Repository, error)

	// Batch runs fn with a Business whose reconciles share one transaction that is
	// committed only when fn returns nil. A failed reconcile inside the batch is
	// rolled back on its own and does not poison the others.
	Batch(ctx context.Context, fn func(b Business) error) error
}

type tables struct {
	users        *fieldTable[users.User]
	issues       *fieldTable[issues.Issue]
	repositories *fieldTable[repositories.Repository]
}

type business struct {
	tx     domain.Transactor
	tables *tables
	now    func() time.Time
}

// NewEntityBusiness builds the merger and validates every field table.
func NewEntityBusiness(tx domain.Transactor) (Business, error) {
	t := &tables{
		users:        userTable(),
		issues:       issueTable(),
		repositories: repositoryTable(),
	}
	if err := t.users.check(); err != nil {
		return nil, err
	}
	if err := t.issues.check(); err != nil {
		return nil, err
	}
	if err := t.repositories.check(); err != nil {
		return nil, err
	}
	return &business{
		tx:     tx,
		tables: t,
		now:    time.Now,
	}, nil
}

func (b *business) ReconcileUser(ctx context.Context, snapshot model.Snapshot, opts ReconcileOptions) (*model.User, error) {
	rec, err := reconcile(ctx, b.tx, b.tables.users, snapshot, b.fetchedAt(opts), opts.Channel)
	if err != nil {
		logReconcileError(model.KindUser, opts, err)
		return nil, err
	}
	return convertDBUserToModel(rec), nil
}

func (b *business) ReconcileIssue(ctx context.Context, snapshot model.Snapshot, opts ReconcileOptions) (*model.Issue, error) {
	rec, err := reconcile(ctx, b.tx, b.tables.issues, snapshot, b.fetchedAt(opts), opts.Channel)
	if err != nil {
		logReconcileError(model.KindIssue, opts, err)
		return nil, err
	}
	return convertDBIssueToModel(rec), nil
}

func (b *business) ReconcileRepository(ctx context.Context, snapshot model.Snapshot, opts ReconcileOptions) (*model.Repository, error) {
	rec, err := reconcile(ctx, b.tx, b.tables.repositories, snapshot, b.fetchedAt(opts), opts.Channel)
	if err != nil {
		logReconcileError(model.KindRepository, opts, err)
		return nil, err
	}
	return convertDBRepositoryToModel(rec), nil
}

func (b *business) Batch(ctx context.Context, fn func(b Business) error) error {
	return b.tx.Batch(ctx, func(t domain.Transactor) error {
		return fn(&business{
			tx:     t,
			tables: b.tables,
			now:    b.now,
		})
	})
}

func (b *business) fetchedAt(opts ReconcileOptions) time.Time {
	if opts.FetchedAt.IsZero() {
		return b.now()
	}
	return opts.FetchedAt
}

func logReconcileError(kind model.Kind, opts ReconcileOptions, err error) {
	switch {
	case errors.Is(err, ErrStaleData):
		rlog.Debug("skipping stale snapshot", "kind", kind, "channel", opts.Channel, "error", err)
	case errors.Is(err, ErrMissingData), errors.Is(err, ErrInvalidSnapshot):
		rlog.Warn("rejected snapshot", "kind", kind, "channel", opts.Channel, "error", err)
	default:
		rlog.Error("failed to reconcile snapshot", "kind", kind, "channel", opts.Channel, "error", err)
	}
}
