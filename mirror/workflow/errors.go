package workflow

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/business/syncer"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/ratelimit"
	"github.com/webhookdb/mirror/mirror/upstream"
)

// Application error types reported by RunTaskActivity.
const (
	ErrTypeNotFound    = "NotFound"
	ErrTypeMissingData = "MissingData"
	ErrTypeRateLimited = "RateLimited"
	ErrTypeInvalidTask = "InvalidTask"
	ErrTypeDependency  = "DependencyError"
)

var nonRetryableErrorTypes = []string{ErrTypeNotFound, ErrTypeMissingData, ErrTypeInvalidTask}

// toApplicationError gives sync failures a stable type so the retry policy and task
// status can tell them apart after crossing the Temporal boundary.
func toApplicationError(err error, now time.Time) error {
	var limited *ratelimit.RateLimitedError
	switch {
	case errors.As(err, &limited):
		return temporal.NewApplicationErrorWithOptions(limited.Message(now), ErrTypeRateLimited, temporal.ApplicationErrorOptions{
			NextRetryDelay: limited.RetryAfter(now),
			Cause:          err,
			Details:        []interface{}{limited.Reset.Unix()},
		})
	case errors.Is(err, upstream.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	case errors.Is(err, entity.ErrMissingData), errors.Is(err, entity.ErrInvalidSnapshot):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeMissingData, err)
	case errors.Is(err, syncer.ErrUnknownTask):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidTask, err)
	default:
		return err
	}
}

// FailureReason classifies the error a finished SyncTask workflow failed with.
func FailureReason(err error) model.FailureReason {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case ErrTypeNotFound:
			return model.FailureNotFound
		case ErrTypeMissingData:
			return model.FailureMissingData
		case ErrTypeRateLimited:
			return model.FailureRateLimited
		}
	}
	return model.FailureError
}
