package workflow

import (
	"context"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/webhookdb/mirror/mirror/business/syncer"
	"github.com/webhookdb/mirror/mirror/model"
)

// ActivityDependencies holds the dependencies needed by activities
type ActivityDependencies struct {
	Sync syncer.Business
}

var activityDeps *ActivityDependencies

// SetActivityDependencies sets the dependencies for activities
func SetActivityDependencies(sync syncer.Business) {
	activityDeps = &ActivityDependencies{
		Sync: sync,
	}
}

// RunTaskActivity fetches and merges the entity or page a task names.
func RunTaskActivity(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Processing sync task activity", "task", spec.String(), "attempt", activity.GetInfo(ctx).Attempt)

	if activityDeps == nil || activityDeps.Sync == nil {
		logger.Error("Activity dependencies not set")
		return nil, temporal.NewApplicationError("activity dependencies not initialized", ErrTypeDependency)
	}

	result, err := activityDeps.Sync.Run(ctx, spec)
	if err != nil {
		logger.Error("Failed to run sync task", "task", spec.String(), "error", err)
		return nil, toApplicationError(err, time.Now())
	}

	logger.Info("Successfully ran sync task", "task", spec.String(), "outcome", result.Outcome, "children", len(result.Children))
	return result, nil
}
