package idempotency

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"encore.dev"
	"encore.dev/middleware"

	"github.com/webhookdb/mirror/mirror/model"
)

// createMiddlewareRequest creates a proper middleware.Request for testing
func createMiddlewareRequest(ctx context.Context, path string, headers http.Header, payload interface{}) middleware.Request {
	encoreReq := &encore.Request{
		Path:    path,
		Headers: headers,
		Payload: payload,
	}
	return middleware.NewRequest(ctx, encoreReq)
}

func TestExtractIdempotencyKey(t *testing.T) {
	testCases := []struct {
		name        string
		headers     http.Header
		expectedKey string
	}{
		{
			name:        "valid_key",
			headers:     http.Header{IDEMPOTENCY_HEADER: []string{"test-key-123"}},
			expectedKey: "test-key-123",
		},
		{
			name:        "missing_header_passes_through",
			headers:     http.Header{},
			expectedKey: "",
		},
		{
			name:        "whitespace_only_header",
			headers:     http.Header{IDEMPOTENCY_HEADER: []string{"   "}},
			expectedKey: "",
		},
		{
			name:        "multiple_header_values_takes_first",
			headers:     http.Header{IDEMPOTENCY_HEADER: []string{"first-key", "second-key"}},
			expectedKey: "first-key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := createMiddlewareRequest(context.Background(), "/repos/octo/hello", tc.headers, nil)
			assert.Equal(t, tc.expectedKey, extractIdempotencyKey(req))
		})
	}
}

func TestGenerateBodyHash(t *testing.T) {
	type payload struct {
		Children bool `json:"children"`
	}

	withChildren := createMiddlewareRequest(context.Background(), "/", nil, &payload{Children: true})
	withoutChildren := createMiddlewareRequest(context.Background(), "/", nil, &payload{Children: false})
	empty := createMiddlewareRequest(context.Background(), "/", nil, nil)

	assert.NotEmpty(t, generateBodyHash(withChildren))
	assert.Equal(t, generateBodyHash(withChildren), generateBodyHash(withChildren))
	assert.NotEqual(t, generateBodyHash(withChildren), generateBodyHash(withoutChildren))
	assert.Empty(t, generateBodyHash(empty))
}

func TestDecide(t *testing.T) {
	testCases := []struct {
		name             string
		entry            model.DeliveryCacheEntry
		bodyHash         string
		expectedDecision Decision
	}{
		{
			name:             "completed_same_body_is_duplicate",
			entry:            model.DeliveryCacheEntry{Status: model.DeliveryCompleted, RequestBodyHash: "abc"},
			bodyHash:         "abc",
			expectedDecision: DecisionDuplicate,
		},
		{
			name:             "processing_is_in_flight",
			entry:            model.DeliveryCacheEntry{Status: model.DeliveryProcessing, RequestBodyHash: "abc"},
			bodyHash:         "abc",
			expectedDecision: DecisionInFlight,
		},
		{
			name:             "different_body_conflicts",
			entry:            model.DeliveryCacheEntry{Status: model.DeliveryCompleted, RequestBodyHash: "abc"},
			bodyHash:         "def",
			expectedDecision: DecisionConflict,
		},
		{
			name:             "missing_stored_hash_never_conflicts",
			entry:            model.DeliveryCacheEntry{Status: model.DeliveryCompleted},
			bodyHash:         "def",
			expectedDecision: DecisionDuplicate,
		},
		{
			name:             "unknown_status_reprocesses",
			entry:            model.DeliveryCacheEntry{Status: "archived"},
			expectedDecision: DecisionProcess,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedDecision, decide(tc.entry, tc.bodyHash))
		})
	}
}

func TestHash(t *testing.T) {
	assert.Empty(t, Hash(nil))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", Hash([]byte("hello")))
}

type framedResponse struct {
	Status   int    `encore:"httpstatus" json:"-"`
	Location string `header:"Location" json:"-"`
	Message  string `json:"message"`
}

func (r *framedResponse) ResponseFraming() (int, map[string]string) {
	return r.Status, map[string]string{"Location": r.Location}
}

func (r *framedResponse) RestoreFraming(status int, headers map[string]string) {
	r.Status = status
	r.Location = headers["Location"]
}

type plainResponse struct {
	Message string `json:"message"`
}

func TestCachedResponseReplay(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("accepted_keeps_status_and_location", func(t *testing.T) {
		entry := completedEntry("abc", &framedResponse{Status: 202, Location: "/tasks/t-1", Message: "queued"}, now)
		assert.Equal(t, model.DeliveryCompleted, entry.Status)
		assert.Equal(t, 202, entry.ResponseStatus)

		value, err := decodeCachedResponse(entry, reflect.TypeOf(&framedResponse{}))
		require.NoError(t, err)
		replayed, ok := value.(*framedResponse)
		require.True(t, ok)
		assert.Equal(t, &framedResponse{Status: 202, Location: "/tasks/t-1", Message: "queued"}, replayed)
	})

	t.Run("plain_response_has_no_framing", func(t *testing.T) {
		entry := completedEntry("abc", &plainResponse{Message: "ok"}, now)
		assert.Zero(t, entry.ResponseStatus)
		assert.Nil(t, entry.ResponseHeaders)

		value, err := decodeCachedResponse(entry, reflect.TypeOf(&plainResponse{}))
		require.NoError(t, err)
		assert.Equal(t, &plainResponse{Message: "ok"}, value)
	})

	t.Run("nil_response_caches_nothing", func(t *testing.T) {
		entry := completedEntry("abc", nil, now)
		assert.Empty(t, entry.Response)
		assert.Equal(t, now, entry.UpdatedAt)
	})

	t.Run("corrupt_body_errors", func(t *testing.T) {
		_, err := decodeCachedResponse(model.DeliveryCacheEntry{Response: []byte(`{`)}, reflect.TypeOf(&plainResponse{}))
		assert.Error(t, err)
	})
}
