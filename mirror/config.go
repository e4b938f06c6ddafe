package mirror

import (
	"encore.dev/config"
)

type UpstreamConfig struct {
	BaseURL   config.String
	UserAgent config.String
	// RequestsPerSecond paces calls to the upstream API. Zero disables pacing.
	RequestsPerSecond config.Float64
	PageSize          config.Int
}

type QueueConfig struct {
	// Backend is "temporal" or "local".
	Backend      config.String
	TemporalHost config.String
	Namespace    config.String
	TaskQueue    config.String
	MaxAttempts  config.Int32
}

type Config struct {
	Upstream UpstreamConfig
	Queue    QueueConfig
}

var cfg = config.Load[*Config]()
