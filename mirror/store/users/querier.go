package users

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Querier interface {
	// EnsureUser inserts an empty row for id unless one exists.
	EnsureUser(ctx context.Context, id int64) error
	GetUser(ctx context.Context, id int64) (User, error)
	// GetUserForUpdate reads the row and holds its lock until the transaction ends.
	GetUserForUpdate(ctx context.Context, id int64) (User, error)
	UpdateUser(ctx context.Context, arg User) error
	WithTx(tx pgx.Tx) Querier
}

var _ Querier = (*Queries)(nil)
