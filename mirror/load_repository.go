package mirror

import (
	"context"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/model"
)

//encore:api public method=POST path=/repos/:owner/:repo tag:idempotency
func (s *Service) LoadRepository(ctx context.Context, owner, repo string, params *LoadParams) (*LoadResponse, error) {
	if owner == "" || repo == "" {
		return nil, &errs.Error{Code: errs.InvalidArgument, Message: "invalid repository"}
	}

	resp, err := s.load(ctx, func(ctx context.Context) (*dispatch.Outcome, error) {
		return s.dispatcher.SyncOne(ctx, dispatch.SyncOneRequest{
			Kind:        model.KindRepository,
			Owner:       owner,
			Repo:        repo,
			Children:    params.Children,
			Inline:      params.Inline,
			RequestorID: requestorID(),
		})
	})
	if err != nil {
		rlog.Error("failed to load repository", "error", err, "owner", owner, "repo", repo)
		return nil, err
	}
	return resp, nil
}
