package issues

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const issueColumns = `id, number, state, title, body, locked, comments_count,
    user_id, user_login, assignee_login, milestone_number, repository_url, html_url,
    created_at, updated_at, closed_at,
    last_replicated_at, last_replicated_via_webhook_at, last_replicated_via_api_at`

const ensureIssue = `-- name: EnsureIssue :exec
INSERT INTO issues (id) VALUES ($1)
ON CONFLICT (id) DO NOTHING
`

func (q *Queries) EnsureIssue(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, ensureIssue, id)
	return err
}

const getIssue = `-- name: GetIssue :one
SELECT ` + issueColumns + ` FROM issues
WHERE id = $1
`

func (q *Queries) GetIssue(ctx context.Context, id int64) (Issue, error) {
	return scanIssue(q.db.QueryRow(ctx, getIssue, id))
}

const getIssueForUpdate = `-- name: GetIssueForUpdate :one
SELECT ` + issueColumns + ` FROM issues
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetIssueForUpdate(ctx context.Context, id int64) (Issue, error) {
	return scanIssue(q.db.QueryRow(ctx, getIssueForUpdate, id))
}

const updateIssue = `-- name: UpdateIssue :exec
UPDATE issues SET
    number = $2,
    state = $3,
    title = $4,
    body = $5,
    locked = $6,
    comments_count = $7,
    user_id = $8,
    user_login = $9,
    assignee_login = $10,
    milestone_number = $11,
    repository_url = $12,
    html_url = $13,
    created_at = $14,
    updated_at = $15,
    closed_at = $16,
    last_replicated_at = $17,
    last_replicated_via_webhook_at = $18,
    last_replicated_via_api_at = $19
WHERE id = $1
`

func (q *Queries) UpdateIssue(ctx context.Context, arg Issue) error {
	_, err := q.db.Exec(ctx, updateIssue,
		arg.ID,
		arg.Number,
		arg.State,
		arg.Title,
		arg.Body,
		arg.Locked,
		arg.CommentsCount,
		arg.UserID,
		arg.UserLogin,
		arg.AssigneeLogin,
		arg.MilestoneNumber,
		arg.RepositoryUrl,
		arg.HtmlUrl,
		arg.CreatedAt,
		arg.UpdatedAt,
		arg.ClosedAt,
		arg.LastReplicatedAt,
		arg.LastReplicatedViaWebhookAt,
		arg.LastReplicatedViaApiAt,
	)
	return err
}

func scanIssue(row pgx.Row) (Issue, error) {
	var i Issue
	err := row.Scan(
		&i.ID,
		&i.Number,
		&i.State,
		&i.Title,
		&i.Body,
		&i.Locked,
		&i.CommentsCount,
		&i.UserID,
		&i.UserLogin,
		&i.AssigneeLogin,
		&i.MilestoneNumber,
		&i.RepositoryUrl,
		&i.HtmlUrl,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.ClosedAt,
		&i.LastReplicatedAt,
		&i.LastReplicatedViaWebhookAt,
		&i.LastReplicatedViaApiAt,
	)
	return i, err
}
