package model

import (
	"encoding/json"
	"time"
)

// DeliveryKey identifies one at-least-once delivery: a webhook delivery ID or a
// client-supplied idempotency key, scoped by its source.
type DeliveryKey struct {
	Source string
	ID     string
}

type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryCompleted  DeliveryStatus = "completed"
)

// DeliveryCacheEntry represents what we store in the cache
type DeliveryCacheEntry struct {
	Status          DeliveryStatus  `json:"status"`
	RequestBodyHash string          `json:"request_body_hash"`
	Response        json.RawMessage `json:"response,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Status and headers the response body does not carry.
	ResponseStatus  int               `json:"response_status,omitempty"`
	ResponseHeaders map[string]string `json:"response_headers,omitempty"`
}
