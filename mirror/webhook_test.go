package mirror

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/middleware/idempotency"
	"github.com/webhookdb/mirror/mirror/mocks/business/entity_business"
	"github.com/webhookdb/mirror/mirror/mocks/middleware/delivery_ledger"
	"github.com/webhookdb/mirror/mirror/model"
)

const issuesPayload = `{
	"action": "edited",
	"issue": {"id": 10, "number": 42, "title": "Crash on start", "user": {"login": "octocat"}},
	"repository": {"id": 5, "full_name": "octo/hello"},
	"sender": {"id": 1, "login": "octocat"}
}`

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func webhookRequest(event, delivery, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewBufferString(body))
	req.Header.Set(headerEvent, event)
	if delivery != "" {
		req.Header.Set(headerDelivery, delivery)
	}
	return req
}

func decodeWebhookResponse(t *testing.T, rec *httptest.ResponseRecorder) WebhookResponse {
	t.Helper()
	var resp WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// expectBatch runs Batch callbacks against the same mock so reconcile calls can be asserted.
func expectBatch(m *entity_business.MockBusiness) {
	m.EXPECT().Batch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(entity.Business) error) error {
			return fn(m)
		}).
		Times(1)
}

func TestGitHubWebhook_IssuesEventMergesEverythingOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntities := entity_business.NewMockBusiness(ctrl)
	mockLedger := delivery_ledger.NewMockLedger(ctrl)
	service := &Service{entities: mockEntities, deliveries: mockLedger}

	key := model.DeliveryKey{Source: deliverySource, ID: "delivery-1"}
	bodyHash := idempotency.Hash([]byte(issuesPayload))
	webhookOpts := gomock.Cond(func(x any) bool {
		opts, ok := x.(entity.ReconcileOptions)
		return ok && opts.Channel == model.ChannelWebhook && !opts.FetchedAt.IsZero()
	})

	mockLedger.EXPECT().Begin(gomock.Any(), key, bodyHash).
		Return(idempotency.DecisionProcess, model.DeliveryCacheEntry{}, nil).Times(1)
	expectBatch(mockEntities)
	gomock.InOrder(
		mockEntities.EXPECT().ReconcileRepository(gomock.Any(), model.Snapshot(`{"id": 5, "full_name": "octo/hello"}`), webhookOpts).
			Return(&model.Repository{ID: 5}, nil),
		mockEntities.EXPECT().ReconcileIssue(gomock.Any(), gomock.Any(), webhookOpts).
			Return(nil, entity.ErrStaleData),
		mockEntities.EXPECT().ReconcileUser(gomock.Any(), model.Snapshot(`{"id": 1, "login": "octocat"}`), webhookOpts).
			Return(&model.User{ID: 1}, nil),
	)
	mockLedger.EXPECT().Complete(gomock.Any(), key, bodyHash, gomock.Any()).Times(1)

	rec := httptest.NewRecorder()
	service.GitHubWebhook(rec, webhookRequest("issues", "delivery-1", issuesPayload))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeWebhookResponse(t, rec)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, 2, resp.Synced)
	assert.Equal(t, 1, resp.Stale)
}

func TestGitHubWebhook_StorageFailureReleasesDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntities := entity_business.NewMockBusiness(ctrl)
	mockLedger := delivery_ledger.NewMockLedger(ctrl)
	service := &Service{entities: mockEntities, deliveries: mockLedger}

	key := model.DeliveryKey{Source: deliverySource, ID: "delivery-2"}
	mockLedger.EXPECT().Begin(gomock.Any(), key, gomock.Any()).
		Return(idempotency.DecisionProcess, model.DeliveryCacheEntry{}, nil).Times(1)
	mockEntities.EXPECT().Batch(gomock.Any(), gomock.Any()).Return(errors.New("connection reset")).Times(1)
	mockLedger.EXPECT().Release(gomock.Any(), key).Times(1)

	rec := httptest.NewRecorder()
	service.GitHubWebhook(rec, webhookRequest("issues", "delivery-2", issuesPayload))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGitHubWebhook_Deliveries(t *testing.T) {
	testCases := []struct {
		name            string
		decision        idempotency.Decision
		entry           model.DeliveryCacheEntry
		expectedCode    int
		expectedMessage string
		expectedSynced  int
	}{
		{
			name:            "duplicate_replays_cached_counts",
			decision:        idempotency.DecisionDuplicate,
			entry:           model.DeliveryCacheEntry{Status: model.DeliveryCompleted, Response: json.RawMessage(`{"message": "ok", "synced": 3}`)},
			expectedCode:    http.StatusOK,
			expectedMessage: "duplicate",
			expectedSynced:  3,
		},
		{
			name:         "in_flight",
			decision:     idempotency.DecisionInFlight,
			expectedCode: http.StatusConflict,
		},
		{
			name:         "reused_delivery_id",
			decision:     idempotency.DecisionConflict,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockEntities := entity_business.NewMockBusiness(ctrl)
			mockLedger := delivery_ledger.NewMockLedger(ctrl)
			service := &Service{entities: mockEntities, deliveries: mockLedger}

			mockLedger.EXPECT().Begin(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(tc.decision, tc.entry, nil).Times(1)

			rec := httptest.NewRecorder()
			service.GitHubWebhook(rec, webhookRequest("issues", "delivery-3", issuesPayload))

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedMessage != "" {
				resp := decodeWebhookResponse(t, rec)
				assert.Equal(t, tc.expectedMessage, resp.Message)
				assert.Equal(t, tc.expectedSynced, resp.Synced)
			}
		})
	}
}

func TestGitHubWebhook_EventsAndSignatures(t *testing.T) {
	testCases := []struct {
		name            string
		secret          string
		event           string
		signature       string
		body            string
		expectedCode    int
		expectedMessage string
	}{
		{
			name:            "ping",
			event:           "ping",
			body:            `{"zen": "Keep it logically awesome."}`,
			expectedCode:    http.StatusOK,
			expectedMessage: "pong",
		},
		{
			name:            "unhandled_event_is_ignored",
			event:           "star",
			body:            `{"action": "created"}`,
			expectedCode:    http.StatusOK,
			expectedMessage: "ignored",
		},
		{
			name:            "valid_signature",
			secret:          "s3cret",
			event:           "ping",
			signature:       sign("s3cret", `{"zen": "ok"}`),
			body:            `{"zen": "ok"}`,
			expectedCode:    http.StatusOK,
			expectedMessage: "pong",
		},
		{
			name:         "wrong_signature",
			secret:       "s3cret",
			event:        "ping",
			signature:    sign("other", `{"zen": "ok"}`),
			body:         `{"zen": "ok"}`,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "missing_signature",
			secret:       "s3cret",
			event:        "ping",
			body:         `{"zen": "ok"}`,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "malformed_payload",
			event:        "issues",
			body:         `{"issue": `,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service := &Service{webhookSecret: tc.secret}

			req := webhookRequest(tc.event, "", tc.body)
			if tc.signature != "" {
				req.Header.Set(headerSignature, tc.signature)
			}
			rec := httptest.NewRecorder()
			service.GitHubWebhook(rec, req)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedMessage != "" {
				assert.Equal(t, tc.expectedMessage, decodeWebhookResponse(t, rec).Message)
			}
		})
	}
}

func TestGitHubWebhook_WithoutDeliveryIDSkipsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntities := entity_business.NewMockBusiness(ctrl)
	service := &Service{entities: mockEntities}

	expectBatch(mockEntities)
	mockEntities.EXPECT().ReconcileRepository(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.Repository{ID: 5}, nil)
	mockEntities.EXPECT().ReconcileUser(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, entity.ErrMissingData)

	body := `{"action": "renamed", "repository": {"id": 5}, "sender": {"login": "ghost"}}`
	rec := httptest.NewRecorder()
	service.GitHubWebhook(rec, webhookRequest("repository", "", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeWebhookResponse(t, rec)
	assert.Equal(t, 1, resp.Synced)
	assert.Equal(t, 1, resp.Skipped)
}

func TestGitHubWebhook_MalformedSenderKeepsRestOfDelivery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockEntities := entity_business.NewMockBusiness(ctrl)
	service := &Service{entities: mockEntities}

	expectBatch(mockEntities)
	gomock.InOrder(
		mockEntities.EXPECT().ReconcileRepository(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.Repository{ID: 5}, nil),
		mockEntities.EXPECT().ReconcileIssue(gomock.Any(), gomock.Any(), gomock.Any()).Return(&model.Issue{ID: 10}, nil),
		mockEntities.EXPECT().ReconcileUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf(`%w: user field "site_admin": not a boolean`, entity.ErrInvalidSnapshot)),
	)

	body := `{
		"action": "opened",
		"issue": {"id": 10, "number": 1},
		"repository": {"id": 5},
		"sender": {"id": 1, "login": "octocat", "site_admin": "yes"}
	}`
	rec := httptest.NewRecorder()
	service.GitHubWebhook(rec, webhookRequest("issues", "", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeWebhookResponse(t, rec)
	assert.Equal(t, "ok", resp.Message)
	assert.Equal(t, 2, resp.Synced)
	assert.Equal(t, 1, resp.Skipped)
}
