package mirror

import (
	"context"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/model"
)

type TaskStatusResponse struct {
	Task model.TaskStatus `json:"task"`
}

//encore:api public method=GET path=/tasks/:id
func (s *Service) GetTaskStatus(ctx context.Context, id string) (*TaskStatusResponse, error) {
	if id == "" {
		return nil, &errs.Error{Code: errs.InvalidArgument, Message: "invalid task ID"}
	}

	status, err := s.tasks.Status(ctx, id)
	if err != nil {
		rlog.Error("failed to get task status", "error", err, "id", id)
		return nil, s.toAPIError(err, nil)
	}

	return &TaskStatusResponse{
		Task: *status,
	}, nil
}
