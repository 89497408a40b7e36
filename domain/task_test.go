package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskState(t *testing.T) {
	for _, valid := range []string{"to_do", "in_progress", "done"} {
		state, err := ParseTaskState(valid)
		require.NoError(t, err)
		assert.Equal(t, TaskState(valid), state)
	}

	for _, invalid := range []string{"", "todo", "DONE", "completed", "invalid_state"} {
		_, err := ParseTaskState(invalid)
		assert.ErrorIs(t, err, ErrInvalidState, "input %q", invalid)
	}
}

func TestParseTaskPriority(t *testing.T) {
	priority, err := ParseTaskPriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityLow, priority)

	for _, valid := range []string{"low", "medium", "high"} {
		priority, err := ParseTaskPriority(valid)
		require.NoError(t, err)
		assert.Equal(t, TaskPriority(valid), priority)
	}

	_, err = ParseTaskPriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTaskPatchEmpty(t *testing.T) {
	assert.True(t, TaskPatch{}.Empty())

	title := "x"
	assert.False(t, TaskPatch{Title: &title}.Empty())
	assert.False(t, TaskPatch{Deadline: &title}.Empty())
}

func TestIsDone(t *testing.T) {
	assert.False(t, (*Task)(nil).IsDone())
	assert.False(t, (&Task{State: StateToDo}).IsDone())
	assert.True(t, (&Task{State: StateDone}).IsDone())
}
