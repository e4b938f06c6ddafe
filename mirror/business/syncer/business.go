package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/ratelimit"
	"github.com/webhookdb/mirror/mirror/upstream"
)

// Business runs one sync task: fetch from upstream, merge into the store and
// describe any child tasks to queue.
type Business interface {
	Run(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error)
}

type Options struct {
	PageSize int
}

type business struct {
	client   upstream.Client
	governor *ratelimit.Governor
	entities entity.Business
	pageSize int
	now      func() time.Time
}

func NewSyncBusiness(client upstream.Client, governor *ratelimit.Governor, entities entity.Business, opts Options) Business {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = upstream.DefaultPerPage
	}
	return &business{
		client:   client,
		governor: governor,
		entities: entities,
		pageSize: pageSize,
		now:      time.Now,
	}
}

func (b *business) Run(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	switch spec.Kind {
	case model.TaskSyncUser:
		return b.syncUser(ctx, spec)
	case model.TaskSyncIssue:
		return b.syncIssue(ctx, spec)
	case model.TaskSyncRepository:
		return b.syncRepository(ctx, spec)
	case model.TaskSpawnIssuePages:
		return b.spawnIssuePages(ctx, spec)
	case model.TaskSyncIssuePage:
		return b.syncIssuePage(ctx, spec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, spec.Kind)
	}
}

// fetch performs one governed upstream call and returns the body with the instant it was
// received, which becomes the snapshot's fetchedAt.
func (b *business) fetch(ctx context.Context, call func(ctx context.Context) (*upstream.Response, error)) (*upstream.Response, time.Time, error) {
	resp, err := b.governor.Do(ctx, call)
	if err != nil {
		return nil, time.Time{}, err
	}
	fetchedAt := b.now()
	if err := upstream.CheckStatus(resp); err != nil {
		return nil, time.Time{}, err
	}
	return resp, fetchedAt, nil
}

func childSpec(parent model.TaskSpec, kind model.TaskKind) model.TaskSpec {
	return model.TaskSpec{
		Kind:        kind,
		Children:    parent.Children,
		RequestorID: parent.RequestorID,
	}
}
