package issues

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type Querier interface {
	EnsureIssue(ctx context.Context, id int64) error
	GetIssue(ctx context.Context, id int64) (Issue, error)
	GetIssueForUpdate(ctx context.Context, id int64) (Issue, error)
	UpdateIssue(ctx context.Context, arg Issue) error
	WithTx(tx pgx.Tx) Querier
}

var _ Querier = (*Queries)(nil)
