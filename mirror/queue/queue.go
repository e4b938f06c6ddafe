// Package queue submits sync tasks for asynchronous execution and reports their status.
package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/ratelimit"
	"github.com/webhookdb/mirror/mirror/upstream"
	"github.com/webhookdb/mirror/mirror/workflow"
)

var ErrTaskNotFound = errors.New("task not found")

// Queue delivers every submitted task at least once. Handlers must be idempotent.
type Queue interface {
	Submit(ctx context.Context, spec model.TaskSpec) (*model.TaskHandle, error)
	Status(ctx context.Context, id string) (*model.TaskStatus, error)
}

func newTaskID(spec model.TaskSpec) string {
	return fmt.Sprintf("%s-%s", spec.Kind, uuid.NewString())
}

// reasonFor classifies a task failure, whether it is a domain error from an
// in-process run or an application error returned by a workflow.
func reasonFor(err error) model.FailureReason {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return model.FailureNotFound
	case errors.Is(err, ratelimit.ErrRateLimited):
		return model.FailureRateLimited
	case errors.Is(err, entity.ErrMissingData), errors.Is(err, entity.ErrInvalidSnapshot):
		return model.FailureMissingData
	default:
		return workflow.FailureReason(err)
	}
}
