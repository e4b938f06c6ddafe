package entity

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/store"
	"github.com/webhookdb/mirror/mirror/store/issues"
	"github.com/webhookdb/mirror/mirror/store/repositories"
	"github.com/webhookdb/mirror/mirror/store/users"
)

func userTable() *fieldTable[users.User] {
	type U = users.User
	return &fieldTable[U]{
		Kind: model.KindUser,
		Fields: []string{
			"login", "site_admin", "name", "company", "blog", "location",
			"email", "hireable", "bio", "public_repos",
			"public_gists", "followers", "following",
		},
		Translations: map[string]string{
			"public_repos": "public_repos_count",
			"public_gists": "public_gists_count",
			"followers":    "followers_count",
			"following":    "following_count",
		},
		Timestamps: []string{"created_at", "updated_at"},
		Columns: map[string]column[U]{
			"login":              text(func(r *U) *pgtype.Text { return &r.Login }),
			"site_admin":         boolean(func(r *U) *pgtype.Bool { return &r.SiteAdmin }),
			"name":               text(func(r *U) *pgtype.Text { return &r.Name }),
			"company":            text(func(r *U) *pgtype.Text { return &r.Company }),
			"blog":               text(func(r *U) *pgtype.Text { return &r.Blog }),
			"location":           text(func(r *U) *pgtype.Text { return &r.Location }),
			"email":              text(func(r *U) *pgtype.Text { return &r.Email }),
			"hireable":           boolean(func(r *U) *pgtype.Bool { return &r.Hireable }),
			"bio":                text(func(r *U) *pgtype.Text { return &r.Bio }),
			"public_repos_count": integer(func(r *U) *pgtype.Int8 { return &r.PublicReposCount }),
			"public_gists_count": integer(func(r *U) *pgtype.Int8 { return &r.PublicGistsCount }),
			"followers_count":    integer(func(r *U) *pgtype.Int8 { return &r.FollowersCount }),
			"following_count":    integer(func(r *U) *pgtype.Int8 { return &r.FollowingCount }),
			"created_at":         timestamp(func(r *U) *pgtype.Timestamp { return &r.CreatedAt }),
			"updated_at":         timestamp(func(r *U) *pgtype.Timestamp { return &r.UpdatedAt }),
		},
		replicated: func(r *U) *pgtype.Timestamp { return &r.LastReplicatedAt },
		watermarks: map[model.Channel]func(r *U) *pgtype.Timestamp{
			model.ChannelWebhook: func(r *U) *pgtype.Timestamp { return &r.LastReplicatedViaWebhookAt },
			model.ChannelAPI:     func(r *U) *pgtype.Timestamp { return &r.LastReplicatedViaApiAt },
		},
		ensure: func(ctx context.Context, st *store.Store, id int64) error {
			return st.Users.EnsureUser(ctx, id)
		},
		lock: func(ctx context.Context, st *store.Store, id int64) (U, error) {
			return st.Users.GetUserForUpdate(ctx, id)
		},
		save: func(ctx context.Context, st *store.Store, rec U) error {
			return st.Users.UpdateUser(ctx, rec)
		},
	}
}

func issueTable() *fieldTable[issues.Issue] {
	type I = issues.Issue
	return &fieldTable[I]{
		Kind: model.KindIssue,
		Fields: []string{
			"number", "state", "title", "body", "locked", "comments",
			"user.id", "user.login", "assignee.login", "milestone.number",
			"repository_url", "html_url",
		},
		Translations: map[string]string{
			"comments":         "comments_count",
			"user.id":          "user_id",
			"user.login":       "user_login",
			"assignee.login":   "assignee_login",
			"milestone.number": "milestone_number",
		},
		Timestamps: []string{"created_at", "updated_at", "closed_at"},
		Columns: map[string]column[I]{
			"number":           integer(func(r *I) *pgtype.Int8 { return &r.Number }),
			"state":            text(func(r *I) *pgtype.Text { return &r.State }),
			"title":            text(func(r *I) *pgtype.Text { return &r.Title }),
			"body":             text(func(r *I) *pgtype.Text { return &r.Body }),
			"locked":           boolean(func(r *I) *pgtype.Bool { return &r.Locked }),
			"comments_count":   integer(func(r *I) *pgtype.Int8 { return &r.CommentsCount }),
			"user_id":          integer(func(r *I) *pgtype.Int8 { return &r.UserID }),
			"user_login":       text(func(r *I) *pgtype.Text { return &r.UserLogin }),
			"assignee_login":   text(func(r *I) *pgtype.Text { return &r.AssigneeLogin }),
			"milestone_number": integer(func(r *I) *pgtype.Int8 { return &r.MilestoneNumber }),
			"repository_url":   text(func(r *I) *pgtype.Text { return &r.RepositoryUrl }),
			"html_url":         text(func(r *I) *pgtype.Text { return &r.HtmlUrl }),
			"created_at":       timestamp(func(r *I) *pgtype.Timestamp { return &r.CreatedAt }),
			"updated_at":       timestamp(func(r *I) *pgtype.Timestamp { return &r.UpdatedAt }),
			"closed_at":        timestamp(func(r *I) *pgtype.Timestamp { return &r.ClosedAt }),
		},
		replicated: func(r *I) *pgtype.Timestamp { return &r.LastReplicatedAt },
		watermarks: map[model.Channel]func(r *I) *pgtype.Timestamp{
			model.ChannelWebhook: func(r *I) *pgtype.Timestamp { return &r.LastReplicatedViaWebhookAt },
			model.ChannelAPI:     func(r *I) *pgtype.Timestamp { return &r.LastReplicatedViaApiAt },
		},
		ensure: func(ctx context.Context, st *store.Store, id int64) error {
			return st.Issues.EnsureIssue(ctx, id)
		},
		lock: func(ctx context.Context, st *store.Store, id int64) (I, error) {
			return st.Issues.GetIssueForUpdate(ctx, id)
		},
		save: func(ctx context.Context, st *store.Store, rec I) error {
			return st.Issues.UpdateIssue(ctx, rec)
		},
	}
}

func repositoryTable() *fieldTable[repositories.Repository] {
	type R = repositories.Repository
	return &fieldTable[R]{
		Kind: model.KindRepository,
		Fields: []string{
			"name", "full_name", "owner.id", "owner.login", "private", "description",
			"fork", "homepage", "language", "forks_count", "stargazers_count",
			"watchers_count", "size", "default_branch", "open_issues_count",
			"has_issues", "has_wiki", "archived",
		},
		Translations: map[string]string{
			"owner.id":    "owner_id",
			"owner.login": "owner_login",
		},
		Timestamps: []string{"created_at", "updated_at", "pushed_at"},
		Columns: map[string]column[R]{
			"name":              text(func(r *R) *pgtype.Text { return &r.Name }),
			"full_name":         text(func(r *R) *pgtype.Text { return &r.FullName }),
			"owner_id":          integer(func(r *R) *pgtype.Int8 { return &r.OwnerID }),
			"owner_login":       text(func(r *R) *pgtype.Text { return &r.OwnerLogin }),
			"private":           boolean(func(r *R) *pgtype.Bool { return &r.Private }),
			"description":       text(func(r *R) *pgtype.Text { return &r.Description }),
			"fork":              boolean(func(r *R) *pgtype.Bool { return &r.Fork }),
			"homepage":          text(func(r *R) *pgtype.Text { return &r.Homepage }),
			"language":          text(func(r *R) *pgtype.Text { return &r.Language }),
			"forks_count":       integer(func(r *R) *pgtype.Int8 { return &r.ForksCount }),
			"stargazers_count":  integer(func(r *R) *pgtype.Int8 { return &r.StargazersCount }),
			"watchers_count":    integer(func(r *R) *pgtype.Int8 { return &r.WatchersCount }),
			"size":              integer(func(r *R) *pgtype.Int8 { return &r.Size }),
			"default_branch":    text(func(r *R) *pgtype.Text { return &r.DefaultBranch }),
			"open_issues_count": integer(func(r *R) *pgtype.Int8 { return &r.OpenIssuesCount }),
			"has_issues":        boolean(func(r *R) *pgtype.Bool { return &r.HasIssues }),
			"has_wiki":          boolean(func(r *R) *pgtype.Bool { return &r.HasWiki }),
			"archived":          boolean(func(r *R) *pgtype.Bool { return &r.Archived }),
			"created_at":        timestamp(func(r *R) *pgtype.Timestamp { return &r.CreatedAt }),
			"updated_at":        timestamp(func(r *R) *pgtype.Timestamp { return &r.UpdatedAt }),
			"pushed_at":         timestamp(func(r *R) *pgtype.Timestamp { return &r.PushedAt }),
		},
		replicated: func(r *R) *pgtype.Timestamp { return &r.LastReplicatedAt },
		watermarks: map[model.Channel]func(r *R) *pgtype.Timestamp{
			model.ChannelWebhook: func(r *R) *pgtype.Timestamp { return &r.LastReplicatedViaWebhookAt },
			model.ChannelAPI:     func(r *R) *pgtype.Timestamp { return &r.LastReplicatedViaApiAt },
		},
		ensure: func(ctx context.Context, st *store.Store, id int64) error {
			return st.Repositories.EnsureRepository(ctx, id)
		},
		lock: func(ctx context.Context, st *store.Store, id int64) (R, error) {
			return st.Repositories.GetRepositoryForUpdate(ctx, id)
		},
		save: func(ctx context.Context, st *store.Store, rec R) error {
			return st.Repositories.UpdateRepository(ctx, rec)
		},
	}
}
