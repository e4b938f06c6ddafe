package model

import (
	"fmt"
)

// TaskKind names one unit of sync work that can be queued.
type TaskKind string

const (
	TaskSyncUser        TaskKind = "sync_user"
	TaskSyncIssue       TaskKind = "sync_issue"
	TaskSyncRepository  TaskKind = "sync_repository"
	TaskSpawnIssuePages TaskKind = "spawn_issue_pages"
	TaskSyncIssuePage   TaskKind = "sync_issue_page"
)

// TaskSpec is the message submitted to the task queue.
type TaskSpec struct {
	Kind        TaskKind `json:"kind"`
	Owner       string   `json:"owner,omitempty"`
	Repo        string   `json:"repo,omitempty"`
	Number      int      `json:"number,omitempty"`
	Login       string   `json:"login,omitempty"`
	State       string   `json:"state,omitempty"`
	Page        int      `json:"page,omitempty"`
	Children    bool     `json:"children"`
	RequestorID string   `json:"requestor_id,omitempty"`
}

func (s TaskSpec) String() string {
	switch s.Kind {
	case TaskSyncUser:
		return fmt.Sprintf("%s %s", s.Kind, s.Login)
	case TaskSyncIssue:
		return fmt.Sprintf("%s %s/%s#%d", s.Kind, s.Owner, s.Repo, s.Number)
	case TaskSyncRepository:
		return fmt.Sprintf("%s %s/%s", s.Kind, s.Owner, s.Repo)
	case TaskSpawnIssuePages:
		return fmt.Sprintf("%s %s/%s state=%s", s.Kind, s.Owner, s.Repo, s.State)
	case TaskSyncIssuePage:
		return fmt.Sprintf("%s %s/%s state=%s page=%d", s.Kind, s.Owner, s.Repo, s.State, s.Page)
	default:
		return string(s.Kind)
	}
}

// Outcome describes what a finished task did.
type Outcome string

const (
	OutcomeSynced  Outcome = "synced"
	OutcomeStale   Outcome = "stale"
	OutcomeSpawned Outcome = "spawned"
)

type TaskResult struct {
	Outcome  Outcome    `json:"outcome"`
	Synced   int        `json:"synced,omitempty"`
	Stale    int        `json:"stale,omitempty"`
	Skipped  int        `json:"skipped,omitempty"`
	Children []TaskSpec `json:"children,omitempty"`
	// ChildIDs are the task IDs the children were queued under.
	ChildIDs []string `json:"child_ids,omitempty"`
}

// TaskHandle identifies a submitted task and is what callers poll for status.
type TaskHandle struct {
	ID    string `json:"id"`
	RunID string `json:"run_id,omitempty"`
}

type TaskState string

const (
	TaskStateQueued    TaskState = "queued"
	TaskStateRunning   TaskState = "running"
	TaskStateSucceeded TaskState = "succeeded"
	TaskStateFailed    TaskState = "failed"
)

var taskTransitions = map[TaskState][]TaskState{
	TaskStateQueued:  {TaskStateRunning, TaskStateFailed},
	TaskStateRunning: {TaskStateSucceeded, TaskStateFailed},
}

// CanTransitionTo reports whether a task in state s may move to next.
// Succeeded and failed are terminal.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s TaskState) Terminal() bool {
	return s == TaskStateSucceeded || s == TaskStateFailed
}

type FailureReason string

const (
	FailureNotFound    FailureReason = "not_found"
	FailureStale       FailureReason = "stale"
	FailureRateLimited FailureReason = "rate_limited"
	FailureMissingData FailureReason = "missing_data"
	FailureError       FailureReason = "error"
)

type TaskStatus struct {
	ID      string        `json:"id"`
	State   TaskState     `json:"state"`
	Reason  FailureReason `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
	Result  *TaskResult   `json:"result,omitempty"`
}

// Finish moves the status to its terminal state for a completed task result.
// A stale result is terminal but reported as failed(stale) so it can be told apart from a sync.
func (s *TaskStatus) Finish(result *TaskResult) {
	s.Result = result
	if result != nil && result.Outcome == OutcomeStale {
		s.State = TaskStateFailed
		s.Reason = FailureStale
		return
	}
	s.State = TaskStateSucceeded
}
