package model

import (
	"time"
)

type Repository struct {
	ID              int64      `json:"id"`
	Name            *string    `json:"name,omitempty"`
	FullName        *string    `json:"full_name,omitempty"`
	OwnerID         *int64     `json:"owner_id,omitempty"`
	OwnerLogin      *string    `json:"owner_login,omitempty"`
	Private         *bool      `json:"private,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Fork            *bool      `json:"fork,omitempty"`
	Homepage        *string    `json:"homepage,omitempty"`
	Language        *string    `json:"language,omitempty"`
	ForksCount      *int64     `json:"forks_count,omitempty"`
	StargazersCount *int64     `json:"stargazers_count,omitempty"`
	WatchersCount   *int64     `json:"watchers_count,omitempty"`
	Size            *int64     `json:"size,omitempty"`
	DefaultBranch   *string    `json:"default_branch,omitempty"`
	OpenIssuesCount *int64     `json:"open_issues_count,omitempty"`
	HasIssues       *bool      `json:"has_issues,omitempty"`
	HasWiki         *bool      `json:"has_wiki,omitempty"`
	Archived        *bool      `json:"archived,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	PushedAt        *time.Time `json:"pushed_at,omitempty"`
	Replication
}
