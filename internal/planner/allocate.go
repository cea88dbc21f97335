package planner

import (
	"math"
	"time"

	"study-planner-backend/internal/tasks"
)

type Allocation struct {
	TaskID         int     `json:"task_id"`
	Title          string  `json:"title"`
	AllocatedHours float64 `json:"allocated_hours"`
	PriorityScore  int     `json:"priority_score"`
}

// AllocateStudyTime splits a total hour budget across tasks, most urgent
// first, capped at each task's remaining work. Greedy, no lookahead.
func AllocateStudyTime(ts []tasks.Task, totalHours float64, now time.Time) []Allocation {
	if len(ts) == 0 || totalHours <= 0 {
		return nil
	}

	var out []Allocation
	remaining := totalHours

	for _, st := range rank(ts, now) {
		if remaining <= 0 {
			break
		}

		alloc := math.Min(st.task.RemainingHours(), remaining)
		if alloc <= 0 {
			continue
		}

		out = append(out, Allocation{
			TaskID:         st.task.ID,
			Title:          st.task.Title,
			AllocatedHours: round2(alloc),
			PriorityScore:  st.score,
		})
		remaining -= alloc
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
