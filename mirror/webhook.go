package mirror

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"encore.dev/beta/errs"
	"encore.dev/rlog"
	"github.com/tidwall/gjson"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/middleware/idempotency"
	"github.com/webhookdb/mirror/mirror/model"
)

const (
	headerEvent     = "X-GitHub-Event"
	headerDelivery  = "X-GitHub-Delivery"
	headerSignature = "X-Hub-Signature-256"

	deliverySource = "github"

	// GitHub caps webhook payloads at 25MB.
	maxWebhookBody = 25 << 20
)

type WebhookResponse struct {
	Message string `json:"message"`
	Synced  int    `json:"synced,omitempty"`
	Stale   int    `json:"stale,omitempty"`
	Skipped int    `json:"skipped,omitempty"`
}

// webhookEntities lists, per event, the payload paths reconciled and the kind stored there.
var webhookEntities = map[string][]webhookEntity{
	"issues": {
		{Path: "repository", Kind: model.KindRepository},
		{Path: "issue", Kind: model.KindIssue},
		{Path: "sender", Kind: model.KindUser},
	},
	"issue_comment": {
		{Path: "repository", Kind: model.KindRepository},
		{Path: "issue", Kind: model.KindIssue},
		{Path: "sender", Kind: model.KindUser},
	},
	"repository": {
		{Path: "repository", Kind: model.KindRepository},
		{Path: "sender", Kind: model.KindUser},
	},
}

type webhookEntity struct {
	Path string
	Kind model.Kind
}

// GitHubWebhook ingests webhook deliveries. Everything one delivery carries is merged
// in a single transaction, and redelivered IDs are acknowledged without merging again.
//
//encore:api public raw method=POST path=/webhooks/github
func (s *Service) GitHubWebhook(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody))
	if err != nil {
		errs.HTTPError(w, &errs.Error{Code: errs.InvalidArgument, Message: "failed to read body"})
		return
	}
	if !s.validSignature(body, req.Header.Get(headerSignature)) {
		errs.HTTPError(w, &errs.Error{Code: errs.Unauthenticated, Message: "invalid webhook signature"})
		return
	}

	event := req.Header.Get(headerEvent)
	if event == "ping" {
		writeJSON(w, http.StatusOK, &WebhookResponse{Message: "pong"})
		return
	}
	targets, ok := webhookEntities[event]
	if !ok {
		rlog.Debug("ignoring webhook event", "event", event)
		writeJSON(w, http.StatusOK, &WebhookResponse{Message: "ignored"})
		return
	}
	if !gjson.ValidBytes(body) {
		errs.HTTPError(w, &errs.Error{Code: errs.InvalidArgument, Message: "payload is not valid JSON"})
		return
	}

	ctx := req.Context()
	delivery := strings.TrimSpace(req.Header.Get(headerDelivery))
	if delivery == "" {
		resp, err := s.ingest(ctx, body, targets)
		if err != nil {
			errs.HTTPError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	key := model.DeliveryKey{Source: deliverySource, ID: delivery}
	bodyHash := idempotency.Hash(body)
	decision, entry, err := s.deliveries.Begin(ctx, key, bodyHash)
	if err != nil {
		errs.HTTPError(w, err)
		return
	}

	switch decision {
	case idempotency.DecisionProcess:
		resp, err := s.ingest(ctx, body, targets)
		if err != nil {
			s.deliveries.Release(ctx, key)
			errs.HTTPError(w, err)
			return
		}
		s.deliveries.Complete(ctx, key, bodyHash, resp)
		writeJSON(w, http.StatusOK, resp)
	case idempotency.DecisionDuplicate:
		rlog.Info("duplicate webhook delivery", "delivery", delivery, "event", event)
		resp := &WebhookResponse{Message: "duplicate"}
		if len(entry.Response) > 0 {
			if err := json.Unmarshal(entry.Response, resp); err != nil {
				rlog.Error("failed to decode cached webhook response", "delivery", delivery, "error", err)
			}
			resp.Message = "duplicate"
		}
		writeJSON(w, http.StatusOK, resp)
	case idempotency.DecisionInFlight:
		errs.HTTPError(w, &errs.Error{Code: errs.Aborted, Message: "delivery is already being processed"})
	default:
		errs.HTTPError(w, &errs.Error{Code: errs.InvalidArgument, Message: "delivery ID reused with a different payload"})
	}
}

// ingest merges the entities of one delivery. Stale, incomplete and malformed entities
// are counted and skipped; any other failure rolls the whole delivery back.
func (s *Service) ingest(ctx context.Context, body []byte, targets []webhookEntity) (*WebhookResponse, error) {
	payload := gjson.ParseBytes(body)
	opts := entity.ReconcileOptions{Channel: model.ChannelWebhook, FetchedAt: time.Now()}
	resp := &WebhookResponse{Message: "ok"}

	err := s.entities.Batch(ctx, func(tx entity.Business) error {
		for _, target := range targets {
			node := payload.Get(target.Path)
			if !node.IsObject() {
				continue
			}
			err := reconcileWebhookEntity(ctx, tx, target.Kind, model.Snapshot(node.Raw), opts)
			switch {
			case err == nil:
				resp.Synced++
			case errors.Is(err, entity.ErrStaleData):
				resp.Stale++
			case errors.Is(err, entity.ErrMissingData), errors.Is(err, entity.ErrInvalidSnapshot):
				resp.Skipped++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.toAPIError(err, nil)
	}
	return resp, nil
}

func reconcileWebhookEntity(ctx context.Context, tx entity.Business, kind model.Kind, snapshot model.Snapshot, opts entity.ReconcileOptions) error {
	var err error
	switch kind {
	case model.KindUser:
		_, err = tx.ReconcileUser(ctx, snapshot, opts)
	case model.KindIssue:
		_, err = tx.ReconcileIssue(ctx, snapshot, opts)
	case model.KindRepository:
		_, err = tx.ReconcileRepository(ctx, snapshot, opts)
	}
	return err
}

// validSignature checks the sha256 HMAC GitHub sends. Deliveries are accepted unsigned
// only while no webhook secret is configured.
func (s *Service) validSignature(body []byte, header string) bool {
	if s.webhookSecret == "" {
		return true
	}
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rlog.Error("failed to write response", "error", err)
	}
}
