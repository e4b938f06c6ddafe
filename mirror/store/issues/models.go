package issues

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Issue struct {
	ID                         int64
	Number                     pgtype.Int8
	State                      pgtype.Text
	Title                      pgtype.Text
	Body                       pgtype.Text
	Locked                     pgtype.Bool
	CommentsCount              pgtype.Int8
	UserID                     pgtype.Int8
	UserLogin                  pgtype.Text
	AssigneeLogin              pgtype.Text
	MilestoneNumber            pgtype.Int8
	RepositoryUrl              pgtype.Text
	HtmlUrl                    pgtype.Text
	CreatedAt                  pgtype.Timestamp
	UpdatedAt                  pgtype.Timestamp
	ClosedAt                   pgtype.Timestamp
	LastReplicatedAt           pgtype.Timestamp
	LastReplicatedViaWebhookAt pgtype.Timestamp
	LastReplicatedViaApiAt     pgtype.Timestamp
}
