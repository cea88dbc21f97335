package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner-backend/internal/tasks"
)

func TestAllocateStudyTimeUrgentFirst(t *testing.T) {
	ts := []tasks.Task{
		pendingTask(1, 2, 3),
		pendingTask(2, 5, 3),
		pendingTask(3, 4, 3),
	}

	out := AllocateStudyTime(ts, 5, testNow)

	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].TaskID)
	assert.Equal(t, 3.0, out[0].AllocatedHours)
	assert.Equal(t, 3, out[1].TaskID)
	assert.Equal(t, 2.0, out[1].AllocatedHours)
}

func TestAllocateStudyTimeCapsAtRemainingWork(t *testing.T) {
	task := pendingTask(1, 5, 4)
	task.CompletionPercentage = 50 // 2h of work left

	out := AllocateStudyTime([]tasks.Task{task}, 10, testNow)

	require.Len(t, out, 1)
	assert.Equal(t, 2.0, out[0].AllocatedHours)
}

func TestAllocateStudyTimeSkipsFinishedTasks(t *testing.T) {
	done := pendingTask(1, 5, 4)
	done.CompletionPercentage = 100

	out := AllocateStudyTime([]tasks.Task{done, pendingTask(2, 1, 2)}, 10, testNow)

	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].TaskID)
}

func TestAllocateStudyTimeEmptyInputs(t *testing.T) {
	assert.Nil(t, AllocateStudyTime(nil, 10, testNow))
	assert.Nil(t, AllocateStudyTime([]tasks.Task{pendingTask(1, 1, 1)}, 0, testNow))
}
