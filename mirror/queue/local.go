package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"encore.dev/rlog"

	"github.com/webhookdb/mirror/mirror/business/syncer"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/ratelimit"
)

const (
	localTaskTimeout = 2 * time.Minute

	// Finished statuses stay readable this long before they are evicted.
	localTaskRetention = time.Hour
)

// runAsync is an indirection over safeAsync so tests can override
// asynchronous behavior and execute operations synchronously.
// Production code uses safeAsync (goroutine) by default.
var runAsync = safeAsync

// safeAsync runs a function in a goroutine with a timeout and structured error logging.
func safeAsync(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), localTaskTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			rlog.Error("async operation failed", "op", op, "error", err)
		} else {
			rlog.Debug("async operation succeeded", "op", op)
		}
	}()
}

// LocalQueue runs tasks in-process. Status lives in memory and is lost on restart,
// so it suits development and single-instance deployments.
type LocalQueue struct {
	runner    syncer.Business
	now       func() time.Time
	retention time.Duration

	mu       sync.RWMutex
	tasks    map[string]*model.TaskStatus
	finished map[string]time.Time
}

func NewLocalQueue(runner syncer.Business) *LocalQueue {
	return &LocalQueue{
		runner:    runner,
		now:       time.Now,
		retention: localTaskRetention,
		tasks:     make(map[string]*model.TaskStatus),
		finished:  make(map[string]time.Time),
	}
}

func (q *LocalQueue) Submit(ctx context.Context, spec model.TaskSpec) (*model.TaskHandle, error) {
	id := newTaskID(spec)
	q.mu.Lock()
	q.evictExpiredLocked()
	q.tasks[id] = &model.TaskStatus{ID: id, State: model.TaskStateQueued}
	q.mu.Unlock()

	runAsync("sync task "+id, func(ctx context.Context) error {
		return q.run(ctx, id, spec)
	})
	return &model.TaskHandle{ID: id}, nil
}

func (q *LocalQueue) Status(ctx context.Context, id string) (*model.TaskStatus, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	status, ok := q.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	copied := *status
	return &copied, nil
}

func (q *LocalQueue) run(ctx context.Context, id string, spec model.TaskSpec) error {
	if err := q.transition(&model.TaskStatus{ID: id, State: model.TaskStateRunning}); err != nil {
		return err
	}

	result, err := q.runner.Run(ctx, spec)
	if err != nil {
		status := &model.TaskStatus{
			ID:      id,
			State:   model.TaskStateFailed,
			Reason:  reasonFor(err),
			Message: err.Error(),
		}
		var limited *ratelimit.RateLimitedError
		if errors.As(err, &limited) {
			status.Message = limited.Message(q.now())
		}
		if terr := q.transition(status); terr != nil {
			return terr
		}
		return err
	}

	for _, child := range result.Children {
		handle, err := q.Submit(ctx, child)
		if err != nil {
			return err
		}
		result.ChildIDs = append(result.ChildIDs, handle.ID)
	}

	status := &model.TaskStatus{ID: id}
	status.Finish(result)
	return q.transition(status)
}

// transition replaces the stored status of a known task, refusing moves its current
// state does not allow.
func (q *LocalQueue) transition(status *model.TaskStatus) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	current, ok := q.tasks[status.ID]
	if !ok {
		return ErrTaskNotFound
	}
	if !current.State.CanTransitionTo(status.State) {
		rlog.Warn("Refusing task state transition", "id", status.ID, "from", current.State, "to", status.State)
		return fmt.Errorf("task %s cannot move from %s to %s", status.ID, current.State, status.State)
	}
	q.tasks[status.ID] = status
	if status.State.Terminal() {
		q.finished[status.ID] = q.now()
	}
	return nil
}

// evictExpiredLocked drops statuses that finished more than retention ago. Callers hold mu.
func (q *LocalQueue) evictExpiredLocked() {
	cutoff := q.now().Add(-q.retention)
	for id, at := range q.finished {
		if at.Before(cutoff) {
			delete(q.tasks, id)
			delete(q.finished, id)
		}
	}
}
