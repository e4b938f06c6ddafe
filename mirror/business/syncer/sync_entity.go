package syncer

import (
	"context"
	"errors"

	"encore.dev/rlog"
	"github.com/tidwall/gjson"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/upstream"
)

func (b *business) syncUser(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	resp, fetchedAt, err := b.fetch(ctx, func(ctx context.Context) (*upstream.Response, error) {
		return b.client.GetUser(ctx, spec.Login)
	})
	if err != nil {
		return nil, err
	}

	_, err = b.entities.ReconcileUser(ctx, resp.Body, entity.ReconcileOptions{
		Channel:   model.ChannelAPI,
		FetchedAt: fetchedAt,
	})
	return finish(spec, err, nil)
}

func (b *business) syncIssue(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	resp, fetchedAt, err := b.fetch(ctx, func(ctx context.Context) (*upstream.Response, error) {
		return b.client.GetIssue(ctx, spec.Owner, spec.Repo, spec.Number)
	})
	if err != nil {
		return nil, err
	}

	_, err = b.entities.ReconcileIssue(ctx, resp.Body, entity.ReconcileOptions{
		Channel:   model.ChannelAPI,
		FetchedAt: fetchedAt,
	})

	var children []model.TaskSpec
	if spec.Children {
		children = userTasks(spec, []gjson.Result{gjson.ParseBytes(resp.Body)})
	}
	return finish(spec, err, children)
}

func (b *business) syncRepository(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	resp, fetchedAt, err := b.fetch(ctx, func(ctx context.Context) (*upstream.Response, error) {
		return b.client.GetRepository(ctx, spec.Owner, spec.Repo)
	})
	if err != nil {
		return nil, err
	}

	_, err = b.entities.ReconcileRepository(ctx, resp.Body, entity.ReconcileOptions{
		Channel:   model.ChannelAPI,
		FetchedAt: fetchedAt,
	})

	var children []model.TaskSpec
	if spec.Children {
		pages := childSpec(spec, model.TaskSpawnIssuePages)
		pages.Owner = spec.Owner
		pages.Repo = spec.Repo
		pages.State = string(model.IssueStateAll)
		children = []model.TaskSpec{pages}
	}
	return finish(spec, err, children)
}

// finish turns a reconcile error into a task result. Stale snapshots complete the task
// with a stale outcome and no children.
func finish(spec model.TaskSpec, err error, children []model.TaskSpec) (*model.TaskResult, error) {
	switch {
	case err == nil:
		return &model.TaskResult{Outcome: model.OutcomeSynced, Synced: 1, Children: children}, nil
	case errors.Is(err, entity.ErrStaleData):
		rlog.Info("snapshot already superseded", "task", spec.String())
		return &model.TaskResult{Outcome: model.OutcomeStale, Stale: 1}, nil
	default:
		return nil, err
	}
}

// userTasks returns one sync_user task per distinct author or assignee login across items.
func userTasks(parent model.TaskSpec, items []gjson.Result) []model.TaskSpec {
	var tasks []model.TaskSpec
	seen := make(map[string]bool)
	for _, item := range items {
		for _, path := range []string{"user.login", "assignee.login"} {
			login := item.Get(path).String()
			if login == "" || seen[login] {
				continue
			}
			seen[login] = true
			task := childSpec(parent, model.TaskSyncUser)
			task.Login = login
			tasks = append(tasks, task)
		}
	}
	return tasks
}
