package planner

import (
	"sort"

	"study-planner-backend/internal/tasks"
)

// HeavyDayHours is the fixed threshold above which a day counts as heavy.
const HeavyDayHours = 6.0

type DayWorkload struct {
	Tasks      []tasks.Task `json:"tasks"`
	TotalHours float64      `json:"total_hours"`
	TaskCount  int          `json:"task_count"`
}

type WorkloadReport struct {
	WorkloadByDate map[string]DayWorkload `json:"workload_by_date"`
	HeavyDays      []string               `json:"heavy_days"`
	TotalTasks     int                    `json:"total_tasks"`
	TotalHours     float64                `json:"total_hours"`
}

// AnalyzeWorkload groups already-scheduled tasks by date. Tasks without a
// scheduled date stay out of the per-day grouping but still count toward
// the totals.
func AnalyzeWorkload(ts []tasks.Task) WorkloadReport {
	report := WorkloadReport{
		WorkloadByDate: map[string]DayWorkload{},
		HeavyDays:      []string{},
	}

	for _, t := range ts {
		report.TotalTasks++
		report.TotalHours += t.EstimatedHours

		if t.ScheduledDate == nil {
			continue
		}
		key := t.ScheduledDate.Format(dateLayout)

		day := report.WorkloadByDate[key]
		day.Tasks = append(day.Tasks, t)
		day.TotalHours += t.EstimatedHours
		day.TaskCount++
		report.WorkloadByDate[key] = day
	}

	for key, day := range report.WorkloadByDate {
		if day.TotalHours > HeavyDayHours {
			report.HeavyDays = append(report.HeavyDays, key)
		}
	}
	sort.Strings(report.HeavyDays)

	return report
}
