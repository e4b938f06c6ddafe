package mirror

import (
	"context"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/model"
)

type LoadIssuesParams struct {
	Children bool   `query:"children"`
	State    string `query:"state" validate:"omitempty,oneof=open closed all"`
}

// LoadIssues queues a sync of every issue in a repository listing. Each listing page
// becomes its own task.
//
//encore:api public method=POST path=/repos/:owner/:repo/issues tag:idempotency
func (s *Service) LoadIssues(ctx context.Context, owner, repo string, params *LoadIssuesParams) (*LoadResponse, error) {
	resp, err := s.load(ctx, func(ctx context.Context) (*dispatch.Outcome, error) {
		return s.dispatcher.SyncCollection(ctx, dispatch.SyncCollectionRequest{
			Kind:        model.KindIssue,
			Owner:       owner,
			Repo:        repo,
			State:       model.IssueState(params.State),
			Children:    params.Children,
			RequestorID: requestorID(),
		})
	})
	if err != nil {
		rlog.Error("failed to queue issues", "error", err, "owner", owner, "repo", repo, "state", params.State)
		return nil, err
	}
	return resp, nil
}

// Validate implements validation for LoadIssuesParams using go-playground/validator
func (p *LoadIssuesParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return &errs.Error{Code: errs.InvalidArgument, Message: err.Error()}
	}
	return nil
}
