package mirror

import (
	"context"
	"strings"

	"encore.dev/beta/errs"
	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/model"
)

//encore:api public method=POST path=/users/:login tag:idempotency
func (s *Service) LoadUser(ctx context.Context, login string, params *LoadParams) (*LoadResponse, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, &errs.Error{Code: errs.InvalidArgument, Message: "invalid login"}
	}

	resp, err := s.load(ctx, func(ctx context.Context) (*dispatch.Outcome, error) {
		return s.dispatcher.SyncOne(ctx, dispatch.SyncOneRequest{
			Kind:        model.KindUser,
			Login:       login,
			Children:    params.Children,
			Inline:      params.Inline,
			RequestorID: requestorID(),
		})
	})
	if err != nil {
		rlog.Error("failed to load user", "error", err, "login", login)
		return nil, err
	}
	return resp, nil
}
