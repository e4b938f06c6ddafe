package workflow

import (
	"fmt"
	"time"

	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/webhookdb/mirror/mirror/model"
)

const (
	// TaskQueue is the Temporal task queue sync tasks are scheduled on.
	TaskQueue = "mirror-sync"

	defaultMaxAttempts = 5
)

// SyncTaskParams contains parameters for starting a sync task workflow
type SyncTaskParams struct {
	Spec        model.TaskSpec `json:"spec"`
	MaxAttempts int32          `json:"max_attempts,omitempty"`
}

// SyncTask runs one task and then queues its children as independent workflows.
// Children are abandoned on close so a failing parent never cancels queued work.
func SyncTask(ctx workflow.Context, params SyncTaskParams) (*model.TaskResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting sync task workflow", "task", params.Spec.String())

	result, err := runTask(ctx, params)
	if err != nil {
		logger.Error("Sync task failed", "task", params.Spec.String(), "error", err)
		return nil, err
	}

	if len(result.Children) > 0 {
		ids, err := startChildren(ctx, params, result.Children)
		result.ChildIDs = ids
		if err != nil {
			logger.Error("Failed to queue child tasks", "task", params.Spec.String(), "queued", len(ids), "error", err)
			return nil, err
		}
	}

	logger.Info("Sync task workflow completed", "task", params.Spec.String(), "outcome", result.Outcome, "children", len(result.ChildIDs))
	return result, nil
}

// runTask executes the RunTask activity
func runTask(ctx workflow.Context, params SyncTaskParams) (*model.TaskResult, error) {
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	activityOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        maxAttempts,
			NonRetryableErrorTypes: nonRetryableErrorTypes,
		},
	}
	activityCtx := workflow.WithActivityOptions(ctx, activityOptions)

	var result model.TaskResult
	if err := workflow.ExecuteActivity(activityCtx, RunTaskActivity, params.Spec).Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// startChildren waits only until each child has started, not until it finishes.
func startChildren(ctx workflow.Context, params SyncTaskParams, children []model.TaskSpec) ([]string, error) {
	parentID := workflow.GetInfo(ctx).WorkflowExecution.ID

	ids := make([]string, 0, len(children))
	for i, child := range children {
		id := fmt.Sprintf("%s-%d", parentID, i+1)
		childCtx := workflow.WithChildOptions(ctx, workflow.ChildWorkflowOptions{
			WorkflowID:        id,
			ParentClosePolicy: enums.PARENT_CLOSE_POLICY_ABANDON,
		})
		future := workflow.ExecuteChildWorkflow(childCtx, SyncTask, SyncTaskParams{
			Spec:        child,
			MaxAttempts: params.MaxAttempts,
		})
		if err := future.GetChildWorkflowExecution().Get(ctx, nil); err != nil {
			if temporal.IsWorkflowExecutionAlreadyStartedError(err) {
				ids = append(ids, id)
				continue
			}
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
