package users

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const userColumns = `id, login, site_admin, name, company, blog, location, email, hireable, bio,
    public_repos_count, public_gists_count, followers_count, following_count,
    created_at, updated_at,
    last_replicated_at, last_replicated_via_webhook_at, last_replicated_via_api_at`

const ensureUser = `-- name: EnsureUser :exec
INSERT INTO users (id) VALUES ($1)
ON CONFLICT (id) DO NOTHING
`

func (q *Queries) EnsureUser(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, ensureUser, id)
	return err
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users
WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const getUserForUpdate = `-- name: GetUserForUpdate :one
SELECT ` + userColumns + ` FROM users
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetUserForUpdate(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserForUpdate, id))
}

const updateUser = `-- name: UpdateUser :exec
UPDATE users SET
    login = $2,
    site_admin = $3,
    name = $4,
    company = $5,
    blog = $6,
    location = $7,
    email = $8,
    hireable = $9,
    bio = $10,
    public_repos_count = $11,
    public_gists_count = $12,
    followers_count = $13,
    following_count = $14,
    created_at = $15,
    updated_at = $16,
    last_replicated_at = $17,
    last_replicated_via_webhook_at = $18,
    last_replicated_via_api_at = $19
WHERE id = $1
`

func (q *Queries) UpdateUser(ctx context.Context, arg User) error {
	_, err := q.db.Exec(ctx, updateUser,
		arg.ID,
		arg.Login,
		arg.SiteAdmin,
		arg.Name,
		arg.Company,
		arg.Blog,
		arg.Location,
		arg.Email,
		arg.Hireable,
		arg.Bio,
		arg.PublicReposCount,
		arg.PublicGistsCount,
		arg.FollowersCount,
		arg.FollowingCount,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.LastReplicatedAt,
		arg.LastReplicatedViaWebhookAt,
		arg.LastReplicatedViaApiAt,
	)
	return err
}

func scanUser(row pgx.Row) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Login,
		&i.SiteAdmin,
		&i.Name,
		&i.Company,
		&i.Blog,
		&i.Location,
		&i.Email,
		&i.Hireable,
		&i.Bio,
		&i.PublicReposCount,
		&i.PublicGistsCount,
		&i.FollowersCount,
		&i.FollowingCount,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.LastReplicatedAt,
		&i.LastReplicatedViaWebhookAt,
		&i.LastReplicatedViaApiAt,
	)
	return i, err
}
