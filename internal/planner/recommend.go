package planner

import (
	"time"

	"study-planner-backend/internal/tasks"
)

// HighPriorityThreshold marks the score above which a pending task shows up
// in the daily recommendations even when it is not scheduled yet.
const HighPriorityThreshold = 50

type Recommendations struct {
	Date              string       `json:"date"`
	ScheduledTasks    []tasks.Task `json:"scheduled_tasks"`
	HighPriorityTasks []tasks.Task `json:"high_priority_tasks"`
	OverdueTasks      []tasks.Task `json:"overdue_tasks"`
	SuggestedFocus    string       `json:"suggested_focus,omitempty"`
}

// DailyRecommendations combines what is scheduled for the target date with
// unscheduled high-priority pending tasks and the overdue backlog, and
// suggests a focus subject (the most common one among the day's tasks).
func DailyRecommendations(scheduled, pending, overdue []tasks.Task, targetDate, now time.Time) Recommendations {
	rec := Recommendations{
		Date:              dateOnly(targetDate).Format(dateLayout),
		ScheduledTasks:    scheduled,
		HighPriorityTasks: []tasks.Task{},
		OverdueTasks:      overdue,
	}

	scheduledIDs := map[int]bool{}
	for _, t := range scheduled {
		scheduledIDs[t.ID] = true
	}

	for _, t := range pending {
		if scheduledIDs[t.ID] {
			continue
		}
		if PriorityScore(t, now) >= HighPriorityThreshold {
			rec.HighPriorityTasks = append(rec.HighPriorityTasks, t)
		}
	}

	rec.SuggestedFocus = focusSubject(scheduled)

	return rec
}

// focusSubject picks the modal subject among the day's scheduled tasks.
// Ties go to the lexicographically smaller name so the choice is stable.
func focusSubject(scheduled []tasks.Task) string {
	if len(scheduled) == 0 {
		return ""
	}

	counts := map[string]int{}
	for _, t := range scheduled {
		subject := t.SubjectName
		if subject == "" {
			subject = "General"
		}
		counts[subject]++
	}

	best := ""
	for subject, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && subject < best) {
			best = subject
		}
	}
	return best
}
