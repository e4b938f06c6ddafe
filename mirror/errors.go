package mirror

import (
	"errors"
	"time"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/queue"
	"github.com/webhookdb/mirror/mirror/ratelimit"
	"github.com/webhookdb/mirror/mirror/upstream"
)

// UpstreamErrorDetails carries the quota state of the upstream call that failed,
// since error responses cannot set the X-RateLimit-* headers themselves.
type UpstreamErrorDetails struct {
	RetryAfterSeconds *int              `json:"retry_after_seconds,omitempty"`
	ResetAt           *time.Time        `json:"reset_at,omitempty"`
	RateLimit         map[string]string `json:"rate_limit,omitempty"`
}

func (UpstreamErrorDetails) ErrDetails() {}

// toAPIError maps sync failures to API errors. snap is the last quota snapshot seen
// while serving the request and may be nil.
func (s *Service) toAPIError(err error, snap *ratelimit.Snapshot) error {
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	details := UpstreamErrorDetails{RateLimit: quotaHeaders(s.governor, snap)}

	var limited *ratelimit.RateLimitedError
	if errors.As(err, &limited) {
		wait := limited.WaitSeconds(time.Now())
		reset := limited.Reset.UTC()
		details.RetryAfterSeconds = &wait
		details.ResetAt = &reset
		return &errs.Error{
			Code:    errs.Unavailable,
			Message: s.governor.Message(limited),
			Details: details,
		}
	}

	var notFound *upstream.NotFoundError
	switch {
	case errors.As(err, &notFound):
		message := notFound.Message
		if message == "" {
			message = "Not Found"
		}
		return &errs.Error{Code: errs.NotFound, Message: message, Details: details}
	case errors.Is(err, entity.ErrMissingData), errors.Is(err, entity.ErrInvalidSnapshot):
		return &errs.Error{Code: errs.InvalidArgument, Message: err.Error()}
	case errors.Is(err, dispatch.ErrUnsupportedKind):
		return &errs.Error{Code: errs.InvalidArgument, Message: err.Error()}
	case errors.Is(err, queue.ErrTaskNotFound):
		return &errs.Error{Code: errs.NotFound, Message: "task not found"}
	default:
		rlog.Error("unhandled sync error", "error", err)
		return &errs.Error{Code: errs.Internal, Message: "failed to sync from upstream"}
	}
}

// quotaHeaders returns the X-RateLimit-* values present in snap.
func quotaHeaders(governor *ratelimit.Governor, snap *ratelimit.Snapshot) map[string]string {
	if snap == nil {
		return nil
	}
	headers := make(map[string]string)
	governor.Propagate(snap, headerMap(headers))
	return headers
}

type headerMap map[string]string

func (h headerMap) SetRateLimitHeader(name, value string) {
	h[name] = value
}
