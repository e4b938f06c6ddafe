package entity

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/store/issues"
	"github.com/webhookdb/mirror/mirror/store/repositories"
	"github.com/webhookdb/mirror/mirror/store/users"
)

func convertDBUserToModel(u users.User) *model.User {
	return &model.User{
		ID:               u.ID,
		Login:            u.Login.String,
		SiteAdmin:        boolPtr(u.SiteAdmin),
		Name:             textPtr(u.Name),
		Company:          textPtr(u.Company),
		Blog:             textPtr(u.Blog),
		Location:         textPtr(u.Location),
		Email:            textPtr(u.Email),
		Hireable:         boolPtr(u.Hireable),
		Bio:              textPtr(u.Bio),
		PublicReposCount: int8Ptr(u.PublicReposCount),
		PublicGistsCount: int8Ptr(u.PublicGistsCount),
		FollowersCount:   int8Ptr(u.FollowersCount),
		FollowingCount:   int8Ptr(u.FollowingCount),
		CreatedAt:        timePtr(u.CreatedAt),
		UpdatedAt:        timePtr(u.UpdatedAt),
		Replication: model.Replication{
			LastReplicatedAt:           timePtr(u.LastReplicatedAt),
			LastReplicatedViaWebhookAt: timePtr(u.LastReplicatedViaWebhookAt),
			LastReplicatedViaAPIAt:     timePtr(u.LastReplicatedViaApiAt),
		},
	}
}

func convertDBIssueToModel(i issues.Issue) *model.Issue {
	return &model.Issue{
		ID:              i.ID,
		Number:          i.Number.Int64,
		State:           textPtr(i.State),
		Title:           textPtr(i.Title),
		Body:            textPtr(i.Body),
		Locked:          boolPtr(i.Locked),
		CommentsCount:   int8Ptr(i.CommentsCount),
		UserID:          int8Ptr(i.UserID),
		UserLogin:       textPtr(i.UserLogin),
		AssigneeLogin:   textPtr(i.AssigneeLogin),
		MilestoneNumber: int8Ptr(i.MilestoneNumber),
		RepositoryURL:   textPtr(i.RepositoryUrl),
		HTMLURL:         textPtr(i.HtmlUrl),
		CreatedAt:       timePtr(i.CreatedAt),
		UpdatedAt:       timePtr(i.UpdatedAt),
		ClosedAt:        timePtr(i.ClosedAt),
		Replication: model.Replication{
			LastReplicatedAt:           timePtr(i.LastReplicatedAt),
			LastReplicatedViaWebhookAt: timePtr(i.LastReplicatedViaWebhookAt),
			LastReplicatedViaAPIAt:     timePtr(i.LastReplicatedViaApiAt),
		},
	}
}

func convertDBRepositoryToModel(r repositories.Repository) *model.Repository {
	return &model.Repository{
		ID:              r.ID,
		Name:            textPtr(r.Name),
		FullName:        textPtr(r.FullName),
		OwnerID:         int8Ptr(r.OwnerID),
		OwnerLogin:      textPtr(r.OwnerLogin),
		Private:         boolPtr(r.Private),
		Description:     textPtr(r.Description),
		Fork:            boolPtr(r.Fork),
		Homepage:        textPtr(r.Homepage),
		Language:        textPtr(r.Language),
		ForksCount:      int8Ptr(r.ForksCount),
		StargazersCount: int8Ptr(r.StargazersCount),
		WatchersCount:   int8Ptr(r.WatchersCount),
		Size:            int8Ptr(r.Size),
		DefaultBranch:   textPtr(r.DefaultBranch),
		OpenIssuesCount: int8Ptr(r.OpenIssuesCount),
		HasIssues:       boolPtr(r.HasIssues),
		HasWiki:         boolPtr(r.HasWiki),
		Archived:        boolPtr(r.Archived),
		CreatedAt:       timePtr(r.CreatedAt),
		UpdatedAt:       timePtr(r.UpdatedAt),
		PushedAt:        timePtr(r.PushedAt),
		Replication: model.Replication{
			LastReplicatedAt:           timePtr(r.LastReplicatedAt),
			LastReplicatedViaWebhookAt: timePtr(r.LastReplicatedViaWebhookAt),
			LastReplicatedViaAPIAt:     timePtr(r.LastReplicatedViaApiAt),
		},
	}
}

func textPtr(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func boolPtr(v pgtype.Bool) *bool {
	if !v.Valid {
		return nil
	}
	return &v.Bool
}

func int8Ptr(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func timePtr(v pgtype.Timestamp) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
