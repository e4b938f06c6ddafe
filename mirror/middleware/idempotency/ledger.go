package idempotency

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"encore.dev/beta/errs"
	"encore.dev/rlog"
	"encore.dev/storage/cache"

	"github.com/webhookdb/mirror/mirror/model"
)

// Decision is what to do with a delivery that may have been seen before.
type Decision string

const (
	DecisionProcess   Decision = "process"
	DecisionDuplicate Decision = "duplicate"
	DecisionInFlight  Decision = "in_flight"
	DecisionConflict  Decision = "conflict"
)

// Ledger records deliveries so a redelivered webhook or retried request is handled once.
type Ledger interface {
	// Begin claims key. Only DecisionProcess means the caller owns the delivery and
	// must follow up with Complete or Release.
	Begin(ctx context.Context, key model.DeliveryKey, bodyHash string) (Decision, model.DeliveryCacheEntry, error)
	Complete(ctx context.Context, key model.DeliveryKey, bodyHash string, response any)
	Release(ctx context.Context, key model.DeliveryKey)
}

type cacheLedger struct {
	now func() time.Time
}

func NewCacheLedger() Ledger {
	return &cacheLedger{now: time.Now}
}

func (l *cacheLedger) Begin(ctx context.Context, key model.DeliveryKey, bodyHash string) (Decision, model.DeliveryCacheEntry, error) {
	err := DeliveryCache.SetIfNotExists(ctx, key, model.DeliveryCacheEntry{
		Status:          model.DeliveryProcessing,
		RequestBodyHash: bodyHash,
		CreatedAt:       l.now(),
	})
	if err == nil {
		return DecisionProcess, model.DeliveryCacheEntry{}, nil
	}
	if !errors.Is(err, cache.KeyExists) {
		rlog.Error("Failed to claim delivery", "source", key.Source, "id", key.ID, "error", err)
		return "", model.DeliveryCacheEntry{}, &errs.Error{Code: errs.Internal, Message: "Failed to check delivery"}
	}

	entry, err := DeliveryCache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.Miss) {
			// Expired between the two calls.
			return l.Begin(ctx, key, bodyHash)
		}
		rlog.Error("Failed to read delivery", "source", key.Source, "id", key.ID, "error", err)
		return "", model.DeliveryCacheEntry{}, &errs.Error{Code: errs.Internal, Message: "Failed to check delivery"}
	}
	return decide(entry, bodyHash), entry, nil
}

// FramedResponse is implemented by responses whose HTTP status or headers are
// excluded from their JSON body, so a replay can restore them.
type FramedResponse interface {
	ResponseFraming() (status int, headers map[string]string)
	RestoreFraming(status int, headers map[string]string)
}

// Complete marks the delivery done, caching response when it is not nil.
func (l *cacheLedger) Complete(ctx context.Context, key model.DeliveryKey, bodyHash string, response any) {
	entry := completedEntry(bodyHash, response, l.now())
	if err := DeliveryCache.Set(ctx, key, entry); err != nil {
		rlog.Error("Failed to mark delivery completed", "source", key.Source, "id", key.ID, "error", err)
	}
}

// Release forgets a failed delivery so the sender's retry is processed.
func (l *cacheLedger) Release(ctx context.Context, key model.DeliveryKey) {
	if _, err := DeliveryCache.Delete(ctx, key); err != nil {
		rlog.Error("Failed to clear failed delivery from cache", "source", key.Source, "id", key.ID, "error", err)
	}
}

func completedEntry(bodyHash string, response any, now time.Time) model.DeliveryCacheEntry {
	entry := model.DeliveryCacheEntry{
		Status:          model.DeliveryCompleted,
		RequestBodyHash: bodyHash,
		UpdatedAt:       now,
	}
	if response == nil {
		return entry
	}
	payload, err := json.Marshal(response)
	if err != nil {
		rlog.Error("Failed to marshal response payload for caching", "error", err)
		return entry
	}
	entry.Response = payload
	if framed, ok := response.(FramedResponse); ok {
		entry.ResponseStatus, entry.ResponseHeaders = framed.ResponseFraming()
	}
	return entry
}

// decodeCachedResponse rebuilds a cached response as a new value of responseType.
func decodeCachedResponse(entry model.DeliveryCacheEntry, responseType reflect.Type) (any, error) {
	if responseType.Kind() == reflect.Ptr {
		responseType = responseType.Elem()
	}
	value := reflect.New(responseType).Interface()
	if err := json.Unmarshal(entry.Response, value); err != nil {
		return nil, err
	}
	if framed, ok := value.(FramedResponse); ok {
		framed.RestoreFraming(entry.ResponseStatus, entry.ResponseHeaders)
	}
	return value, nil
}

func decide(entry model.DeliveryCacheEntry, bodyHash string) Decision {
	if validateBodyHash(entry, bodyHash) != nil {
		return DecisionConflict
	}
	switch entry.Status {
	case model.DeliveryProcessing:
		return DecisionInFlight
	case model.DeliveryCompleted:
		return DecisionDuplicate
	default:
		rlog.Warn("Unknown delivery status, processing as new delivery", "status", entry.Status)
		return DecisionProcess
	}
}

// validateBodyHash checks for conflicts in request body hash
func validateBodyHash(entry model.DeliveryCacheEntry, bodyHash string) *errs.Error {
	if bodyHash != "" && entry.RequestBodyHash != "" && bodyHash != entry.RequestBodyHash {
		return &errs.Error{Code: errs.InvalidArgument, Message: "idempotency key conflict: request body does not match previous request"}
	}
	return nil
}

// Hash creates a stable hash of a request body
func Hash(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	hash := md5.New()
	hash.Write(body)
	return hex.EncodeToString(hash.Sum(nil))
}
