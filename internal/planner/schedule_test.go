package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner-backend/internal/tasks"
)

func pendingTask(id, priority int, hours float64) tasks.Task {
	return tasks.Task{
		ID:             id,
		Title:          "task",
		TaskType:       tasks.TypeStudy,
		Priority:       priority,
		EstimatedHours: hours,
		Status:         tasks.StatusPending,
	}
}

func TestSuggestScheduleFillsDaysInScoreOrder(t *testing.T) {
	var pending []tasks.Task
	for i := 1; i <= 5; i++ {
		pending = append(pending, pendingTask(i, i, 2))
	}

	sched := SuggestSchedule(pending, 4, 7, testNow)

	require.Len(t, sched.Days, 7)
	assert.Empty(t, sched.Unscheduled)

	// highest priority first, two per day until they run out
	require.Len(t, sched.Days[0].Tasks, 2)
	assert.Equal(t, 5, sched.Days[0].Tasks[0].TaskID)
	assert.Equal(t, 4, sched.Days[0].Tasks[1].TaskID)
	require.Len(t, sched.Days[1].Tasks, 2)
	assert.Equal(t, 3, sched.Days[1].Tasks[0].TaskID)
	assert.Equal(t, 2, sched.Days[1].Tasks[1].TaskID)
	require.Len(t, sched.Days[2].Tasks, 1)
	assert.Equal(t, 1, sched.Days[2].Tasks[0].TaskID)

	for _, d := range sched.Days[3:] {
		assert.Empty(t, d.Tasks)
		assert.Equal(t, 4.0, d.RemainingHours)
	}
}

func TestSuggestScheduleDatesStartToday(t *testing.T) {
	sched := SuggestSchedule(nil, 4, 3, testNow)

	require.Len(t, sched.Days, 3)
	assert.Equal(t, "2026-03-10", sched.Days[0].Date)
	assert.Equal(t, "2026-03-11", sched.Days[1].Date)
	assert.Equal(t, "2026-03-12", sched.Days[2].Date)
}

func TestSuggestScheduleRespectsDailyBudget(t *testing.T) {
	var pending []tasks.Task
	for i := 1; i <= 12; i++ {
		pending = append(pending, pendingTask(i, 1+i%5, 1.5))
	}

	sched := SuggestSchedule(pending, 4, 5, testNow)

	for _, d := range sched.Days {
		var used float64
		for _, e := range d.Tasks {
			used += e.EstimatedHours
		}
		assert.LessOrEqual(t, used, 4.0, "day %s over budget", d.Date)
		assert.InDelta(t, 4.0-used, d.RemainingHours, 1e-9)
	}
}

func TestSuggestScheduleCursorDoesNotBacktrack(t *testing.T) {
	pending := []tasks.Task{
		pendingTask(1, 5, 3),
		pendingTask(2, 4, 3),
		pendingTask(3, 3, 1),
	}

	sched := SuggestSchedule(pending, 4, 3, testNow)

	// task 3 would still fit on day 0, but placement continues from the
	// day the previous task landed on
	require.Len(t, sched.Days[0].Tasks, 1)
	assert.Equal(t, 1, sched.Days[0].Tasks[0].TaskID)
	require.Len(t, sched.Days[1].Tasks, 2)
	assert.Equal(t, 2, sched.Days[1].Tasks[0].TaskID)
	assert.Equal(t, 3, sched.Days[1].Tasks[1].TaskID)
	assert.Equal(t, 1.0, sched.Days[0].RemainingHours)
}

func TestSuggestScheduleOversizedTaskIsUnscheduled(t *testing.T) {
	pending := []tasks.Task{
		pendingTask(1, 5, 5), // never fits a 4h day
		pendingTask(2, 1, 2),
	}

	sched := SuggestSchedule(pending, 4, 7, testNow)

	require.Len(t, sched.Unscheduled, 1)
	assert.Equal(t, 1, sched.Unscheduled[0].TaskID)
	for _, d := range sched.Days {
		for _, e := range d.Tasks {
			assert.NotEqual(t, 1, e.TaskID)
		}
	}
}

func TestSuggestScheduleIgnoresNonPending(t *testing.T) {
	pending := []tasks.Task{
		pendingTask(1, 3, 2),
		{ID: 2, Priority: 5, EstimatedHours: 2, Status: tasks.StatusCompleted, TaskType: tasks.TypeStudy},
		{ID: 3, Priority: 5, EstimatedHours: 2, Status: tasks.StatusInProgress, TaskType: tasks.TypeStudy},
	}

	sched := SuggestSchedule(pending, 4, 2, testNow)

	require.Len(t, sched.Days[0].Tasks, 1)
	assert.Equal(t, 1, sched.Days[0].Tasks[0].TaskID)
}

func TestSuggestScheduleMinimumOneDay(t *testing.T) {
	sched := SuggestSchedule(nil, 4, 0, testNow)
	assert.Len(t, sched.Days, 1)
}

func TestRankIsStableForEqualScores(t *testing.T) {
	a := pendingTask(1, 3, 2)
	b := pendingTask(2, 3, 2)

	ranked := rank([]tasks.Task{a, b}, testNow)

	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].task.ID)
	assert.Equal(t, 2, ranked[1].task.ID)
}
