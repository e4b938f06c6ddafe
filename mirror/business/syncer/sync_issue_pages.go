package syncer

import (
	"context"
	"errors"
	"fmt"

	"encore.dev/rlog"
	"github.com/tidwall/gjson"

	"github.com/webhookdb/mirror/mirror/business/entity"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/upstream"
)

// spawnIssuePages reads the first listing page to learn the page count and describes
// one sync_issue_page task per page. Pages are processed by their own tasks, so a
// failure here loses only pages that were not yet described.
func (b *business) spawnIssuePages(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	resp, _, err := b.fetch(ctx, func(ctx context.Context) (*upstream.Response, error) {
		return b.client.ListIssues(ctx, spec.Owner, spec.Repo, upstream.ListOptions{
			State:   spec.State,
			Page:    1,
			PerPage: b.pageSize,
		})
	})
	if err != nil {
		return nil, err
	}

	pages, err := countPages(resp)
	if err != nil {
		return nil, err
	}

	children := make([]model.TaskSpec, 0, pages)
	for page := 1; page <= pages; page++ {
		task := childSpec(spec, model.TaskSyncIssuePage)
		task.Owner = spec.Owner
		task.Repo = spec.Repo
		task.State = spec.State
		task.Page = page
		children = append(children, task)
	}

	rlog.Info("spawning issue page tasks", "owner", spec.Owner, "repo", spec.Repo, "state", spec.State, "pages", pages)
	return &model.TaskResult{Outcome: model.OutcomeSpawned, Children: children}, nil
}

func countPages(resp *upstream.Response) (int, error) {
	if last, ok := upstream.LastPage(resp.Header.Get("Link")); ok {
		return last, nil
	}
	listing := gjson.ParseBytes(resp.Body)
	if !listing.IsArray() {
		return 0, fmt.Errorf("%w: expected a JSON array", ErrInvalidListing)
	}
	if len(listing.Array()) == 0 {
		return 0, nil
	}
	return 1, nil
}

// syncIssuePage merges every issue on one listing page in a single transaction.
// Stale items are counted, items without an ID are skipped. Only synced items
// contribute user children.
func (b *business) syncIssuePage(ctx context.Context, spec model.TaskSpec) (*model.TaskResult, error) {
	resp, fetchedAt, err := b.fetch(ctx, func(ctx context.Context) (*upstream.Response, error) {
		return b.client.ListIssues(ctx, spec.Owner, spec.Repo, upstream.ListOptions{
			State:   spec.State,
			Page:    spec.Page,
			PerPage: b.pageSize,
		})
	})
	if err != nil {
		return nil, err
	}

	listing := gjson.ParseBytes(resp.Body)
	if !listing.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrInvalidListing)
	}
	items := listing.Array()

	result := &model.TaskResult{Outcome: model.OutcomeSynced}
	var synced []gjson.Result
	err = b.entities.Batch(ctx, func(tx entity.Business) error {
		*result = model.TaskResult{Outcome: model.OutcomeSynced}
		synced = synced[:0]
		for _, item := range items {
			_, err := tx.ReconcileIssue(ctx, model.Snapshot(item.Raw), entity.ReconcileOptions{
				Channel:   model.ChannelAPI,
				FetchedAt: fetchedAt,
			})
			switch {
			case err == nil:
				result.Synced++
				synced = append(synced, item)
			case errors.Is(err, entity.ErrStaleData):
				result.Stale++
			case errors.Is(err, entity.ErrMissingData), errors.Is(err, entity.ErrInvalidSnapshot):
				result.Skipped++
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if spec.Children {
		result.Children = userTasks(spec, synced)
	}
	return result, nil
}
