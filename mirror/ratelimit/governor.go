// Package ratelimit reads upstream quota headers, relays them to callers and turns
// upstream throttling into RateLimitedError.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/webhookdb/mirror/mirror/upstream"
)

const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
	headerRetry     = "Retry-After"
)

// Headers lists the quota headers in the order they are relayed.
var Headers = []string{HeaderLimit, HeaderRemaining, HeaderReset}

// Snapshot is the quota state reported on one upstream response. Values are kept
// verbatim; an empty value means the header was absent.
type Snapshot struct {
	Limit     string `json:"limit,omitempty"`
	Remaining string `json:"remaining,omitempty"`
	Reset     string `json:"reset,omitempty"`
}

// Get returns the verbatim value for one of Headers.
func (s *Snapshot) Get(header string) (string, bool) {
	if s == nil {
		return "", false
	}
	var v string
	switch header {
	case HeaderLimit:
		v = s.Limit
	case HeaderRemaining:
		v = s.Remaining
	case HeaderReset:
		v = s.Reset
	}
	return v, v != ""
}

// Exhausted reports whether the upstream said no requests remain.
func (s *Snapshot) Exhausted() bool {
	return s != nil && strings.TrimSpace(s.Remaining) == "0"
}

// ResetAt parses the reset header as unix epoch seconds.
func (s *Snapshot) ResetAt() (time.Time, bool) {
	if s == nil || s.Reset == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(s.Reset), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

// Target is a caller-facing response that can carry quota headers.
type Target interface {
	SetRateLimitHeader(name, value string)
}

// HeaderTarget adapts an http.Header to Target.
type HeaderTarget http.Header

func (h HeaderTarget) SetRateLimitHeader(name, value string) {
	http.Header(h).Set(name, value)
}

// Governor is stateless apart from its clock and safe for concurrent use.
type Governor struct {
	now func() time.Time
}

func NewGovernor() *Governor {
	return &Governor{now: time.Now}
}

// Observe extracts the quota snapshot from resp, or nil when none of the headers are present.
func (g *Governor) Observe(resp *upstream.Response) *Snapshot {
	if resp == nil {
		return nil
	}
	snap := &Snapshot{
		Limit:     resp.Header.Get(HeaderLimit),
		Remaining: resp.Header.Get(HeaderRemaining),
		Reset:     resp.Header.Get(HeaderReset),
	}
	if snap.Limit == "" && snap.Remaining == "" && snap.Reset == "" {
		return nil
	}
	return snap
}

// Propagate copies the present quota values onto target. A nil snapshot is a no-op.
func (g *Governor) Propagate(snap *Snapshot, target Target) {
	if snap == nil || target == nil {
		return
	}
	for _, h := range Headers {
		if v, ok := snap.Get(h); ok {
			target.SetRateLimitHeader(h, v)
		}
	}
}

// ClassifyThrottled returns a RateLimitedError when resp signals throttling: any 429,
// a 403 with zero remaining, or a 403 carrying Retry-After (the secondary limit, sent
// while quota is left). It returns nil otherwise.
func (g *Governor) ClassifyThrottled(resp *upstream.Response) *RateLimitedError {
	if resp == nil {
		return nil
	}
	snap := g.Observe(resp)
	_, hasRetry := g.retryAt(resp)
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
	case resp.StatusCode == http.StatusForbidden && (snap.Exhausted() || hasRetry):
	default:
		return nil
	}
	return &RateLimitedError{
		Response: resp,
		Reset:    g.resetInstant(resp, snap),
	}
}

// resetInstant prefers the quota reset once quota is exhausted, and Retry-After otherwise.
func (g *Governor) resetInstant(resp *upstream.Response, snap *Snapshot) time.Time {
	retry, hasRetry := g.retryAt(resp)
	if hasRetry && !snap.Exhausted() {
		return retry
	}
	if reset, ok := snap.ResetAt(); ok {
		return reset
	}
	if hasRetry {
		return retry
	}
	return g.now()
}

func (g *Governor) retryAt(resp *upstream.Response) (time.Time, bool) {
	secs, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get(headerRetry)))
	if err != nil || secs < 0 {
		return time.Time{}, false
	}
	return g.now().Add(time.Duration(secs) * time.Second), true
}

// Do performs one upstream call. The response's quota snapshot is recorded on ctx for
// the caller-facing layer, and throttled responses are returned as RateLimitedError
// alongside the response.
func (g *Governor) Do(ctx context.Context, call func(ctx context.Context) (*upstream.Response, error)) (*upstream.Response, error) {
	resp, err := call(ctx)
	if err != nil {
		return nil, err
	}
	Record(ctx, g.Observe(resp))
	if throttled := g.ClassifyThrottled(resp); throttled != nil {
		return resp, throttled
	}
	return resp, nil
}

// Message renders err for a caller at the governor's current time.
func (g *Governor) Message(err *RateLimitedError) string {
	return err.Message(g.now())
}

// RetryAfter is the wait until err's reset instant, measured now.
func (g *Governor) RetryAfter(err *RateLimitedError) time.Duration {
	return err.RetryAfter(g.now())
}
