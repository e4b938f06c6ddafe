package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Querier interface {
	EnsureRepository(ctx context.Context, id int64) error
	GetRepository(ctx context.Context, id int64) (Repository, error)
	GetRepositoryForUpdate(ctx context.Context, id int64) (Repository, error)
	UpdateRepository(ctx context.Context, arg Repository) error
	WithTx(tx pgx.Tx) Querier
}

var _ Querier = (*Queries)(nil)
