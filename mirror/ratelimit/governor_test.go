package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webhookdb/mirror/mirror/upstream"
)

var now = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newTestGovernor() *Governor {
	return &Governor{now: func() time.Time { return now }}
}

func response(status int, headers map[string]string, body string) *upstream.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &upstream.Response{StatusCode: status, Header: h, Body: []byte(body)}
}

func resetIn(d time.Duration) string {
	return strconv.FormatInt(now.Add(d).Unix(), 10)
}

type recordingTarget map[string]string

func (r recordingTarget) SetRateLimitHeader(name, value string) { r[name] = value }

func TestObserveAndPropagate(t *testing.T) {
	testCases := []struct {
		name            string
		headers         map[string]string
		expectSnapshot  bool
		expectedHeaders map[string]string
	}{
		{
			name: "all_headers_copied_verbatim",
			headers: map[string]string{
				HeaderLimit:     "5000",
				HeaderRemaining: "4999",
				HeaderReset:     "1714557600",
			},
			expectSnapshot: true,
			expectedHeaders: map[string]string{
				HeaderLimit:     "5000",
				HeaderRemaining: "4999",
				HeaderReset:     "1714557600",
			},
		},
		{
			name:            "only_present_headers_copied",
			headers:         map[string]string{HeaderRemaining: " 12 "},
			expectSnapshot:  true,
			expectedHeaders: map[string]string{HeaderRemaining: " 12 "},
		},
		{
			name:            "no_quota_headers",
			headers:         map[string]string{"Content-Type": "application/json"},
			expectedHeaders: map[string]string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGovernor()
			snap := g.Observe(response(http.StatusOK, tc.headers, `{}`))
			assert.Equal(t, tc.expectSnapshot, snap != nil)

			target := recordingTarget{}
			g.Propagate(snap, target)
			assert.Equal(t, tc.expectedHeaders, map[string]string(target))
		})
	}

	t.Run("never_contacted_upstream", func(t *testing.T) {
		g := newTestGovernor()
		assert.Nil(t, g.Observe(nil))
		target := recordingTarget{}
		g.Propagate(nil, target)
		assert.Empty(t, target)
	})

	t.Run("http_header_target", func(t *testing.T) {
		g := newTestGovernor()
		h := http.Header{}
		g.Propagate(&Snapshot{Limit: "60"}, HeaderTarget(h))
		assert.Equal(t, "60", h.Get(HeaderLimit))
		assert.Empty(t, h.Get(HeaderRemaining))
	})
}

func TestClassifyThrottled(t *testing.T) {
	testCases := []struct {
		name          string
		resp          *upstream.Response
		expectLimited bool
		expectedReset time.Time
	}{
		{
			name:          "forbidden_with_zero_remaining",
			resp:          response(http.StatusForbidden, map[string]string{HeaderRemaining: "0", HeaderReset: resetIn(30 * time.Second)}, `{"message": "API rate limit exceeded"}`),
			expectLimited: true,
			expectedReset: now.Add(30 * time.Second),
		},
		{
			name:          "too_many_requests_with_retry_after",
			resp:          response(http.StatusTooManyRequests, map[string]string{"Retry-After": "7"}, ``),
			expectLimited: true,
			expectedReset: now.Add(7 * time.Second),
		},
		{
			name:          "too_many_requests_without_hints_resets_now",
			resp:          response(http.StatusTooManyRequests, nil, ``),
			expectLimited: true,
			expectedReset: now,
		},
		{
			name: "forbidden_secondary_limit_with_retry_after",
			resp: response(http.StatusForbidden, map[string]string{
				"Retry-After":   "60",
				HeaderRemaining: "4000",
				HeaderReset:     resetIn(time.Hour),
			}, `{"message": "You have exceeded a secondary rate limit."}`),
			expectLimited: true,
			expectedReset: now.Add(60 * time.Second),
		},
		{
			name: "exhausted_quota_prefers_reset_over_retry_after",
			resp: response(http.StatusTooManyRequests, map[string]string{
				"Retry-After":   "5",
				HeaderRemaining: "0",
				HeaderReset:     resetIn(2 * time.Minute),
			}, ``),
			expectLimited: true,
			expectedReset: now.Add(2 * time.Minute),
		},
		{
			name: "forbidden_with_unparsable_retry_after_is_not_throttling",
			resp: response(http.StatusForbidden, map[string]string{"Retry-After": "soon", HeaderRemaining: "10"}, ``),
		},
		{
			name: "forbidden_with_quota_left_is_not_throttling",
			resp: response(http.StatusForbidden, map[string]string{HeaderRemaining: "10"}, `{"message": "Resource not accessible"}`),
		},
		{
			name: "success_with_zero_remaining_is_not_throttling",
			resp: response(http.StatusOK, map[string]string{HeaderRemaining: "0"}, `{}`),
		},
		{
			name: "not_found",
			resp: response(http.StatusNotFound, map[string]string{HeaderRemaining: "4000"}, `{"message": "Not Found"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			limited := newTestGovernor().ClassifyThrottled(tc.resp)
			if !tc.expectLimited {
				assert.Nil(t, limited)
				return
			}
			require.NotNil(t, limited)
			assert.True(t, tc.expectedReset.Equal(limited.Reset))
			assert.Same(t, tc.resp, limited.Response)
			assert.ErrorIs(t, limited, ErrRateLimited)
		})
	}
}

func TestRateLimitedMessage(t *testing.T) {
	testCases := []struct {
		name            string
		body            string
		reset           time.Time
		expectedMessage string
	}{
		{
			name:            "singular",
			body:            `{"message": "API rate limit exceeded for 1.2.3.4."}`,
			reset:           now.Add(time.Second),
			expectedMessage: "API rate limit exceeded for 1.2.3.4. Try again in 1 second.",
		},
		{
			name:            "plural",
			body:            `{"message": "API rate limit exceeded."}`,
			reset:           now.Add(5 * time.Second),
			expectedMessage: "API rate limit exceeded. Try again in 5 seconds.",
		},
		{
			name:            "default_message_when_body_unparsable",
			body:            `<html>nope</html>`,
			reset:           now.Add(2 * time.Second),
			expectedMessage: "Rate limited. Try again in 2 seconds.",
		},
		{
			name:            "partial_second_rounds_up",
			body:            `{}`,
			reset:           now.Add(300 * time.Millisecond),
			expectedMessage: "Rate limited. Try again in 1 second.",
		},
		{
			name:            "reset_in_the_past_clamps_to_zero",
			body:            `{}`,
			reset:           now.Add(-time.Minute),
			expectedMessage: "Rate limited. Try again in 0 seconds.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := &RateLimitedError{
				Response: response(http.StatusForbidden, nil, tc.body),
				Reset:    tc.reset,
			}
			assert.Equal(t, tc.expectedMessage, newTestGovernor().Message(err))
		})
	}
}

func TestGovernorDo(t *testing.T) {
	t.Run("records_snapshot_and_passes_success_through", func(t *testing.T) {
		g := newTestGovernor()
		ctx, rec := WithRecorder(context.Background())

		resp, err := g.Do(ctx, func(ctx context.Context) (*upstream.Response, error) {
			return response(http.StatusOK, map[string]string{HeaderRemaining: "41"}, `{"id": 1}`), nil
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, rec.Last())
		assert.Equal(t, "41", rec.Last().Remaining)
	})

	t.Run("throttled_response_returns_rate_limited_error", func(t *testing.T) {
		g := newTestGovernor()
		ctx, rec := WithRecorder(context.Background())

		_, err := g.Do(ctx, func(ctx context.Context) (*upstream.Response, error) {
			return response(http.StatusForbidden, map[string]string{HeaderRemaining: "0", HeaderReset: resetIn(time.Minute)}, `{}`), nil
		})
		var limited *RateLimitedError
		require.True(t, errors.As(err, &limited))
		assert.Equal(t, time.Minute, g.RetryAfter(limited))
		assert.Equal(t, "0", rec.Last().Remaining)
	})

	t.Run("transport_error_records_nothing", func(t *testing.T) {
		g := newTestGovernor()
		ctx, rec := WithRecorder(context.Background())
		boom := errors.New("dial tcp: connection refused")

		_, err := g.Do(ctx, func(ctx context.Context) (*upstream.Response, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, rec.Last())
	})

	t.Run("without_recorder", func(t *testing.T) {
		g := newTestGovernor()
		_, err := g.Do(context.Background(), func(ctx context.Context) (*upstream.Response, error) {
			return response(http.StatusOK, map[string]string{HeaderRemaining: "1"}, `{}`), nil
		})
		assert.NoError(t, err)
	})
}
