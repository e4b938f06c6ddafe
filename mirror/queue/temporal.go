package queue

import (
	"context"
	"errors"
	"fmt"

	enums "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/workflow"
)

// TemporalQueue runs each task as a SyncTask workflow. The workflow ID is the task ID.
type TemporalQueue struct {
	client      client.Client
	taskQueue   string
	maxAttempts int32
}

func NewTemporalQueue(c client.Client, taskQueue string, maxAttempts int32) *TemporalQueue {
	if taskQueue == "" {
		taskQueue = workflow.TaskQueue
	}
	return &TemporalQueue{
		client:      c,
		taskQueue:   taskQueue,
		maxAttempts: maxAttempts,
	}
}

func (q *TemporalQueue) Submit(ctx context.Context, spec model.TaskSpec) (*model.TaskHandle, error) {
	options := client.StartWorkflowOptions{
		ID:        newTaskID(spec),
		TaskQueue: q.taskQueue,
	}
	run, err := q.client.ExecuteWorkflow(ctx, options, workflow.SyncTask, workflow.SyncTaskParams{
		Spec:        spec,
		MaxAttempts: q.maxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("execute workflow %s: %w", options.ID, err)
	}
	return &model.TaskHandle{ID: run.GetID(), RunID: run.GetRunID()}, nil
}

func (q *TemporalQueue) Status(ctx context.Context, id string) (*model.TaskStatus, error) {
	desc, err := q.client.DescribeWorkflowExecution(ctx, id, "")
	if err != nil {
		var notFound *serviceerror.NotFound
		if errors.As(err, &notFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("describe workflow %s: %w", id, err)
	}

	info := desc.GetWorkflowExecutionInfo()
	status := &model.TaskStatus{ID: id}

	switch info.GetStatus() {
	case enums.WORKFLOW_EXECUTION_STATUS_RUNNING, enums.WORKFLOW_EXECUTION_STATUS_CONTINUED_AS_NEW:
		status.State = model.TaskStateQueued
		if started(desc) {
			status.State = model.TaskStateRunning
		}
	case enums.WORKFLOW_EXECUTION_STATUS_COMPLETED:
		var result model.TaskResult
		if err := q.client.GetWorkflow(ctx, id, info.GetExecution().GetRunId()).Get(ctx, &result); err != nil {
			return nil, fmt.Errorf("get workflow result %s: %w", id, err)
		}
		status.Finish(&result)
	case enums.WORKFLOW_EXECUTION_STATUS_FAILED:
		status.State = model.TaskStateFailed
		runErr := q.client.GetWorkflow(ctx, id, info.GetExecution().GetRunId()).Get(ctx, nil)
		status.Reason = reasonFor(runErr)
		if runErr != nil {
			status.Message = failureMessage(runErr)
		}
	default:
		status.State = model.TaskStateFailed
		status.Reason = model.FailureError
		status.Message = fmt.Sprintf("task %s", enumName(info.GetStatus()))
	}
	return status, nil
}

// started reports whether a worker has picked the task up.
func started(desc *workflowservice.DescribeWorkflowExecutionResponse) bool {
	if len(desc.GetPendingChildren()) > 0 {
		return true
	}
	for _, pending := range desc.GetPendingActivities() {
		if pending.GetState() == enums.PENDING_ACTIVITY_STATE_STARTED || pending.GetAttempt() > 1 {
			return true
		}
	}
	return false
}

// failureMessage prefers the message the activity reported over the wrapping
// workflow and activity error text.
func failureMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Message() != "" {
		return appErr.Message()
	}
	return err.Error()
}

func enumName(s enums.WorkflowExecutionStatus) string {
	switch s {
	case enums.WORKFLOW_EXECUTION_STATUS_TIMED_OUT:
		return "timed out"
	case enums.WORKFLOW_EXECUTION_STATUS_TERMINATED:
		return "terminated"
	case enums.WORKFLOW_EXECUTION_STATUS_CANCELED:
		return "canceled"
	default:
		return s.String()
	}
}
