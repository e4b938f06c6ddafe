package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const repositoryColumns = `id, name, full_name, owner_id, owner_login, private, description, fork,
    homepage, language, forks_count, stargazers_count, watchers_count, size, default_branch,
    open_issues_count, has_issues, has_wiki, archived,
    created_at, updated_at, pushed_at,
    last_replicated_at, last_replicated_via_webhook_at, last_replicated_via_api_at`

const ensureRepository = `-- name: EnsureRepository :exec
INSERT INTO repositories (id) VALUES ($1)
ON CONFLICT (id) DO NOTHING
`

func (q *Queries) EnsureRepository(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, ensureRepository, id)
	return err
}

const getRepository = `-- name: GetRepository :one
SELECT ` + repositoryColumns + ` FROM repositories
WHERE id = $1
`

func (q *Queries) GetRepository(ctx context.Context, id int64) (Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepository, id))
}

const getRepositoryForUpdate = `-- name: GetRepositoryForUpdate :one
SELECT ` + repositoryColumns + ` FROM repositories
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetRepositoryForUpdate(ctx context.Context, id int64) (Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepositoryForUpdate, id))
}

const updateRepository = `-- name: UpdateRepository :exec
UPDATE repositories SET
    name = $2,
    full_name = $3,
    owner_id = $4,
    owner_login = $5,
    private = $6,
    description = $7,
    fork = $8,
    homepage = $9,
    language = $10,
    forks_count = $11,
    stargazers_count = $12,
    watchers_count = $13,
    size = $14,
    default_branch = $15,
    open_issues_count = $16,
    has_issues = $17,
    has_wiki = $18,
    archived = $19,
    created_at = $20,
    updated_at = $21,
    pushed_at = $22,
    last_replicated_at = $23,
    last_replicated_via_webhook_at = $24,
    last_replicated_via_api_at = $25
WHERE id = $1
`

func (q *Queries) UpdateRepository(ctx context.Context, arg Repository) error {
	_, err := q.db.Exec(ctx, updateRepository,
		arg.ID,
		arg.Name,
		arg.FullName,
		arg.OwnerID,
		arg.OwnerLogin,
		arg.Private,
		arg.Description,
		arg.Fork,
		arg.Homepage,
		arg.Language,
		arg.ForksCount,
		arg.StargazersCount,
		arg.WatchersCount,
		arg.Size,
		arg.DefaultBranch,
		arg.OpenIssuesCount,
		arg.HasIssues,
		arg.HasWiki,
		arg.Archived,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.PushedAt,
		arg.LastReplicatedAt,
		arg.LastReplicatedViaWebhookAt,
		arg.LastReplicatedViaApiAt,
	)
	return err
}

func scanRepository(row pgx.Row) (Repository, error) {
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.FullName,
		&i.OwnerID,
		&i.OwnerLogin,
		&i.Private,
		&i.Description,
		&i.Fork,
		&i.Homepage,
		&i.Language,
		&i.ForksCount,
		&i.StargazersCount,
		&i.WatchersCount,
		&i.Size,
		&i.DefaultBranch,
		&i.OpenIssuesCount,
		&i.HasIssues,
		&i.HasWiki,
		&i.Archived,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.PushedAt,
		&i.LastReplicatedAt,
		&i.LastReplicatedViaWebhookAt,
		&i.LastReplicatedViaApiAt,
	)
	return i, err
}
