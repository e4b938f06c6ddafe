package model

import (
	"time"
)

type Issue struct {
	ID              int64      `json:"id"`
	Number          int64      `json:"number"`
	State           *string    `json:"state,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Body            *string    `json:"body,omitempty"`
	Locked          *bool      `json:"locked,omitempty"`
	CommentsCount   *int64     `json:"comments_count,omitempty"`
	UserID          *int64     `json:"user_id,omitempty"`
	UserLogin       *string    `json:"user_login,omitempty"`
	AssigneeLogin   *string    `json:"assignee_login,omitempty"`
	MilestoneNumber *int64     `json:"milestone_number,omitempty"`
	RepositoryURL   *string    `json:"repository_url,omitempty"`
	HTMLURL         *string    `json:"html_url,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	Replication
}

// IssueState is the listing filter GitHub accepts for repository issues.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
	IssueStateAll    IssueState = "all"
)

func (s IssueState) Valid() bool {
	switch s {
	case IssueStateOpen, IssueStateClosed, IssueStateAll:
		return true
	}
	return false
}
