package model

import (
	"encoding/json"
	"time"
)

// Kind identifies the upstream entity type a record or task refers to.
type Kind string

const (
	KindUser       Kind = "user"
	KindIssue      Kind = "issue"
	KindRepository Kind = "repository"
)

// Channel is the ingestion path a snapshot arrived through.
type Channel string

const (
	ChannelWebhook Channel = "webhook"
	ChannelAPI     Channel = "api"
)

// Snapshot is the raw attribute set of one entity as returned by the upstream API.
type Snapshot = json.RawMessage

// Replication holds the replication watermarks of a mirrored record.
type Replication struct {
	LastReplicatedAt           *time.Time `json:"last_replicated_at,omitempty"`
	LastReplicatedViaWebhookAt *time.Time `json:"last_replicated_via_webhook_at,omitempty"`
	LastReplicatedViaAPIAt     *time.Time `json:"last_replicated_via_api_at,omitempty"`
}
