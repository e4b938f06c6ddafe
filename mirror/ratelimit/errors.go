package ratelimit

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/webhookdb/mirror/mirror/upstream"
)

var ErrRateLimited = errors.New("rate limited")

const defaultUpstreamMessage = "Rate limited."

// RateLimitedError is returned when the upstream quota is exhausted. It carries the raw
// throttled response and the instant the quota resets.
type RateLimitedError struct {
	Response *upstream.Response
	Reset    time.Time
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited until %s", e.Reset.UTC().Format(time.RFC3339))
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// UpstreamMessage is the human message from the throttled response body.
func (e *RateLimitedError) UpstreamMessage() string {
	if msg := e.Response.Message(); msg != "" {
		return msg
	}
	return defaultUpstreamMessage
}

// RetryAfter is the time left until the reset instant, never negative.
func (e *RateLimitedError) RetryAfter(now time.Time) time.Duration {
	wait := e.Reset.Sub(now)
	if wait < 0 {
		return 0
	}
	return wait
}

// WaitSeconds rounds RetryAfter up to whole seconds.
func (e *RateLimitedError) WaitSeconds(now time.Time) int {
	return int(math.Ceil(e.RetryAfter(now).Seconds()))
}

// Message renders "<upstream message> Try again in N second(s)."
func (e *RateLimitedError) Message(now time.Time) string {
	sec := e.WaitSeconds(now)
	unit := "seconds"
	if sec == 1 {
		unit = "second"
	}
	return fmt.Sprintf("%s Try again in %d %s.", e.UpstreamMessage(), sec, unit)
}
