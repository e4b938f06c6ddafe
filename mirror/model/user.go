package model

import (
	"time"
)

type User struct {
	ID               int64      `json:"id"`
	Login            string     `json:"login"`
	SiteAdmin        *bool      `json:"site_admin,omitempty"`
	Name             *string    `json:"name,omitempty"`
	Company          *string    `json:"company,omitempty"`
	Blog             *string    `json:"blog,omitempty"`
	Location         *string    `json:"location,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Hireable         *bool      `json:"hireable,omitempty"`
	Bio              *string    `json:"bio,omitempty"`
	PublicReposCount *int64     `json:"public_repos_count,omitempty"`
	PublicGistsCount *int64     `json:"public_gists_count,omitempty"`
	FollowersCount   *int64     `json:"followers_count,omitempty"`
	FollowingCount   *int64     `json:"following_count,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
	Replication
}
