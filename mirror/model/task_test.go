package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskState_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from     TaskState
		to       TaskState
		expected bool
	}{
		{TaskStateQueued, TaskStateRunning, true},
		{TaskStateQueued, TaskStateFailed, true},
		{TaskStateQueued, TaskStateSucceeded, false},
		{TaskStateRunning, TaskStateSucceeded, true},
		{TaskStateRunning, TaskStateFailed, true},
		{TaskStateRunning, TaskStateQueued, false},
		{TaskStateSucceeded, TaskStateRunning, false},
		{TaskStateFailed, TaskStateSucceeded, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTaskStatus_Finish(t *testing.T) {
	t.Run("synced_succeeds", func(t *testing.T) {
		status := &TaskStatus{ID: "sync_user-1", State: TaskStateRunning}
		status.Finish(&TaskResult{Outcome: OutcomeSynced, Synced: 1})
		assert.Equal(t, TaskStateSucceeded, status.State)
		assert.Empty(t, status.Reason)
		assert.True(t, status.State.Terminal())
	})

	t.Run("stale_is_reported_as_failure", func(t *testing.T) {
		status := &TaskStatus{ID: "sync_user-1", State: TaskStateRunning}
		status.Finish(&TaskResult{Outcome: OutcomeStale, Stale: 1})
		assert.Equal(t, TaskStateFailed, status.State)
		assert.Equal(t, FailureStale, status.Reason)
	})
}
