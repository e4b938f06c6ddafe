package repositories

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Repository struct {
	ID                         int64
	Name                       pgtype.Text
	FullName                   pgtype.Text
	OwnerID                    pgtype.Int8
	OwnerLogin                 pgtype.Text
	Private                    pgtype.Bool
	Description                pgtype.Text
	Fork                       pgtype.Bool
	Homepage                   pgtype.Text
	Language                   pgtype.Text
	ForksCount                 pgtype.Int8
	StargazersCount            pgtype.Int8
	WatchersCount              pgtype.Int8
	Size                       pgtype.Int8
	DefaultBranch              pgtype.Text
	OpenIssuesCount            pgtype.Int8
	HasIssues                  pgtype.Bool
	HasWiki                    pgtype.Bool
	Archived                   pgtype.Bool
	CreatedAt                  pgtype.Timestamp
	UpdatedAt                  pgtype.Timestamp
	PushedAt                   pgtype.Timestamp
	LastReplicatedAt           pgtype.Timestamp
	LastReplicatedViaWebhookAt pgtype.Timestamp
	LastReplicatedViaApiAt     pgtype.Timestamp
}
