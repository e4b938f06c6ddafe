package users

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID                         int64
	Login                      pgtype.Text
	SiteAdmin                  pgtype.Bool
	Name                       pgtype.Text
	Company                    pgtype.Text
	Blog                       pgtype.Text
	Location                   pgtype.Text
	Email                      pgtype.Text
	Hireable                   pgtype.Bool
	Bio                        pgtype.Text
	PublicReposCount           pgtype.Int8
	PublicGistsCount           pgtype.Int8
	FollowersCount             pgtype.Int8
	FollowingCount             pgtype.Int8
	CreatedAt                  pgtype.Timestamp
	UpdatedAt                  pgtype.Timestamp
	LastReplicatedAt           pgtype.Timestamp
	LastReplicatedViaWebhookAt pgtype.Timestamp
	LastReplicatedViaApiAt     pgtype.Timestamp
}
