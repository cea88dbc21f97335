package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner-backend/internal/tasks"
)

func scheduledTask(id int, date string, hours float64) tasks.Task {
	d, _ := time.Parse(dateLayout, date)
	return tasks.Task{ID: id, EstimatedHours: hours, ScheduledDate: &d, Status: tasks.StatusPending}
}

func TestAnalyzeWorkloadGroupsByDate(t *testing.T) {
	report := AnalyzeWorkload([]tasks.Task{
		scheduledTask(1, "2026-03-10", 2),
		scheduledTask(2, "2026-03-10", 3),
		scheduledTask(3, "2026-03-11", 1.5),
	})

	require.Len(t, report.WorkloadByDate, 2)
	assert.Equal(t, 5.0, report.WorkloadByDate["2026-03-10"].TotalHours)
	assert.Equal(t, 2, report.WorkloadByDate["2026-03-10"].TaskCount)
	assert.Equal(t, 1.5, report.WorkloadByDate["2026-03-11"].TotalHours)
	assert.Equal(t, 3, report.TotalTasks)
	assert.Equal(t, 6.5, report.TotalHours)
}

func TestAnalyzeWorkloadHeavyDayThreshold(t *testing.T) {
	report := AnalyzeWorkload([]tasks.Task{
		scheduledTask(1, "2026-03-10", 3),
		scheduledTask(2, "2026-03-10", 3), // exactly 6h, not heavy
		scheduledTask(3, "2026-03-11", 6.5),
		scheduledTask(4, "2026-03-12", 4),
		scheduledTask(5, "2026-03-13", 7),
	})

	assert.Equal(t, []string{"2026-03-11", "2026-03-13"}, report.HeavyDays)
}

func TestAnalyzeWorkloadDatelessTasksCountTowardTotalsOnly(t *testing.T) {
	report := AnalyzeWorkload([]tasks.Task{
		scheduledTask(1, "2026-03-10", 2),
		{ID: 2, EstimatedHours: 4, Status: tasks.StatusPending},
	})

	assert.Len(t, report.WorkloadByDate, 1)
	assert.Equal(t, 2, report.TotalTasks)
	assert.Equal(t, 6.0, report.TotalHours)
}

func TestAnalyzeWorkloadEmpty(t *testing.T) {
	report := AnalyzeWorkload(nil)

	assert.NotNil(t, report.WorkloadByDate)
	assert.Equal(t, []string{}, report.HeavyDays)
	assert.Zero(t, report.TotalTasks)
}
