package idempotency

import (
	"encoding/json"
	"strings"

	"encore.dev/beta/errs"
	"encore.dev/middleware"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/model"
)

var (
	IDEMPOTENCY_HEADER = "X-Idempotency-Key"
)

var ledger = NewCacheLedger()

// IdempotencyMiddleware de-duplicates load requests that carry an X-Idempotency-Key.
// Requests without the header pass through, since load endpoints are safe to repeat.
//
//encore:middleware target=tag:idempotency
func IdempotencyMiddleware(req middleware.Request, next middleware.Next) middleware.Response {
	idempotencyKey := extractIdempotencyKey(req)
	if idempotencyKey == "" {
		return next(req)
	}

	bodyHash := generateBodyHash(req)
	key := model.DeliveryKey{
		Source: req.Data().Path,
		ID:     idempotencyKey,
	}

	decision, entry, err := ledger.Begin(req.Context(), key, bodyHash)
	if err != nil {
		return middleware.Response{Err: err}
	}

	switch decision {
	case DecisionProcess:
		response := next(req)
		if response.Err != nil {
			ledger.Release(req.Context(), key)
		} else {
			ledger.Complete(req.Context(), key, bodyHash, response.Payload)
		}
		return response
	case DecisionConflict:
		return middleware.Response{Err: validateBodyHash(entry, bodyHash)}
	case DecisionInFlight:
		rlog.Info("Concurrent request detected", "key", idempotencyKey)
		return middleware.Response{
			Err: &errs.Error{Code: errs.Aborted, Message: "Request is already being processed."},
		}
	default:
		return handleCompletedEntry(req, next, entry, idempotencyKey)
	}
}

// extractIdempotencyKey returns the trimmed idempotency key, or "" when absent.
func extractIdempotencyKey(req middleware.Request) string {
	if headers := req.Data().Headers; headers != nil {
		return strings.TrimSpace(headers.Get(IDEMPOTENCY_HEADER))
	}
	return ""
}

// generateBodyHash creates a hash of the request payload for conflict detection
func generateBodyHash(req middleware.Request) string {
	var bodyHash string
	if payload := req.Data().Payload; payload != nil {
		if bodyBytes, err := json.Marshal(payload); err != nil {
			rlog.Error("Failed to marshal request body", "error", err)
		} else {
			bodyHash = Hash(bodyBytes)
		}
	}
	return bodyHash
}

// handleCompletedEntry handles returning cached responses
func handleCompletedEntry(req middleware.Request, next middleware.Next, entry model.DeliveryCacheEntry, idempotencyKey string) middleware.Response {
	if len(entry.Response) > 0 {
		rlog.Info("Returning cached response", "key", idempotencyKey)

		if responseType := req.Data().API.ResponseType; responseType != nil {
			responseValue, err := decodeCachedResponse(entry, responseType)
			if err == nil {
				return middleware.Response{Payload: responseValue, HTTPStatus: entry.ResponseStatus}
			}
			rlog.Error("Failed to unmarshal cached response into correct type", "error", err, "key", idempotencyKey)
		}
	}

	// Fallback: if cached response is corrupted, treat as new request
	return next(req)
}
