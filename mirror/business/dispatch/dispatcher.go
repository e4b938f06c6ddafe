package dispatch

import (
	"context"
	"errors"
	"fmt"

	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/syncer"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/queue"
)

var ErrUnsupportedKind = errors.New("unsupported kind")

type Status string

const (
	StatusCompleted Status = "completed"
	StatusQueued    Status = "queued"
)

// Outcome is either a completed inline run with its result, or a queued task handle.
type Outcome struct {
	Status Status
	Result *model.TaskResult
	Handle *model.TaskHandle
}

type SyncOneRequest struct {
	Kind        model.Kind
	Owner       string
	Repo        string
	Number      int
	Login       string
	Children    bool
	Inline      bool
	RequestorID string
}

type SyncCollectionRequest struct {
	Kind        model.Kind
	Owner       string
	Repo        string
	State       model.IssueState
	Children    bool
	RequestorID string
}

// Dispatcher decides whether sync work runs on the caller or on the task queue.
type Dispatcher interface {
	// SyncOne runs inline only when Inline is set and Children is not. Child expansion
	// always goes through the queue. Inline failures, NotFound included, are returned.
	SyncOne(ctx context.Context, req SyncOneRequest) (*Outcome, error)
	// SyncCollection always queues one spawn task for the listing.
	SyncCollection(ctx context.Context, req SyncCollectionRequest) (*Outcome, error)
}

type dispatcher struct {
	sync  syncer.Business
	tasks queue.Queue
}

func NewDispatcher(sync syncer.Business, tasks queue.Queue) Dispatcher {
	return &dispatcher{
		sync:  sync,
		tasks: tasks,
	}
}

func (d *dispatcher) SyncOne(ctx context.Context, req SyncOneRequest) (*Outcome, error) {
	spec := model.TaskSpec{
		Owner:       req.Owner,
		Repo:        req.Repo,
		Children:    req.Children,
		RequestorID: req.RequestorID,
	}
	switch req.Kind {
	case model.KindUser:
		spec.Kind = model.TaskSyncUser
		spec.Login = req.Login
		spec.Owner, spec.Repo = "", ""
	case model.KindIssue:
		spec.Kind = model.TaskSyncIssue
		spec.Number = req.Number
	case model.KindRepository:
		spec.Kind = model.TaskSyncRepository
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind)
	}

	if req.Inline && !req.Children {
		result, err := d.sync.Run(ctx, spec)
		if err != nil {
			return nil, err
		}
		return &Outcome{Status: StatusCompleted, Result: result}, nil
	}
	return d.submit(ctx, spec)
}

func (d *dispatcher) SyncCollection(ctx context.Context, req SyncCollectionRequest) (*Outcome, error) {
	if req.Kind != model.KindIssue {
		return nil, fmt.Errorf("%w: collection of %q", ErrUnsupportedKind, req.Kind)
	}
	state := req.State
	if state == "" {
		state = model.IssueStateOpen
	}
	return d.submit(ctx, model.TaskSpec{
		Kind:        model.TaskSpawnIssuePages,
		Owner:       req.Owner,
		Repo:        req.Repo,
		State:       string(state),
		Children:    req.Children,
		RequestorID: req.RequestorID,
	})
}

func (d *dispatcher) submit(ctx context.Context, spec model.TaskSpec) (*Outcome, error) {
	handle, err := d.tasks.Submit(ctx, spec)
	if err != nil {
		rlog.Error("failed to queue sync task", "task", spec.String(), "error", err)
		return nil, err
	}
	rlog.Info("queued sync task", "task", spec.String(), "task_id", handle.ID, "requestor_id", spec.RequestorID)
	return &Outcome{Status: StatusQueued, Handle: handle}, nil
}
