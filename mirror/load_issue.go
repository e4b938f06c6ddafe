package mirror

import (
	"context"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/model"
)

//encore:api public method=POST path=/repos/:owner/:repo/issues/:number tag:idempotency
func (s *Service) LoadIssue(ctx context.Context, owner, repo string, number int, params *LoadParams) (*LoadResponse, error) {
	if number <= 0 {
		return nil, &errs.Error{Code: errs.InvalidArgument, Message: "invalid issue number"}
	}

	resp, err := s.load(ctx, func(ctx context.Context) (*dispatch.Outcome, error) {
		return s.dispatcher.SyncOne(ctx, dispatch.SyncOneRequest{
			Kind:        model.KindIssue,
			Owner:       owner,
			Repo:        repo,
			Number:      number,
			Children:    params.Children,
			Inline:      params.Inline,
			RequestorID: requestorID(),
		})
	})
	if err != nil {
		rlog.Error("failed to load issue", "error", err, "owner", owner, "repo", repo, "number", number)
		return nil, err
	}
	return resp, nil
}
