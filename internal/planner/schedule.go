package planner

import (
	"time"

	"study-planner-backend/internal/tasks"
)

type ScheduleEntry struct {
	TaskID         int        `json:"task_id"`
	Title          string     `json:"title"`
	SubjectName    string     `json:"subject_name,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	Priority       int        `json:"priority"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}

type DayPlan struct {
	Date           string          `json:"date"`
	Tasks          []ScheduleEntry `json:"tasks"`
	RemainingHours float64         `json:"remaining_hours"`
}

// Schedule is the result of one suggestion pass: exactly days_ahead day
// plans starting today, plus the tasks that fit nowhere.
type Schedule struct {
	Days        []DayPlan       `json:"days"`
	Unscheduled []ScheduleEntry `json:"unscheduled,omitempty"`
}

// SuggestSchedule bins pending tasks into the upcoming days under a per-day
// hour budget, most urgent first.
//
// Placement keeps a cursor over the day list: each task is tried starting at
// the day the previous task landed on, scanning forward with wrap-around.
// This intentionally clusters work onto consecutive days instead of
// restarting at day 0 for every task. A task that fits on no day within one
// full scan ends up in Unscheduled.
func SuggestSchedule(pending []tasks.Task, hoursPerDay float64, daysAhead int, now time.Time) Schedule {
	if daysAhead < 1 {
		daysAhead = 1
	}

	today := dateOnly(now)
	days := make([]DayPlan, daysAhead)
	for i := range days {
		days[i] = DayPlan{
			Date:           today.AddDate(0, 0, i).Format(dateLayout),
			Tasks:          []ScheduleEntry{},
			RemainingHours: hoursPerDay,
		}
	}

	// callers should pass pending tasks only, but filter again here
	var candidates []tasks.Task
	for _, t := range pending {
		if t.Status == tasks.StatusPending {
			candidates = append(candidates, t)
		}
	}

	sched := Schedule{Days: days}

	cursor := 0
	for _, st := range rank(candidates, now) {
		placed := false
		for attempts := 0; attempts < daysAhead; attempts++ {
			if days[cursor].RemainingHours >= st.task.EstimatedHours {
				days[cursor].Tasks = append(days[cursor].Tasks, entryFor(st.task))
				days[cursor].RemainingHours -= st.task.EstimatedHours
				placed = true
				break
			}
			cursor = (cursor + 1) % daysAhead
		}
		if !placed {
			sched.Unscheduled = append(sched.Unscheduled, entryFor(st.task))
		}
	}

	return sched
}

func entryFor(t tasks.Task) ScheduleEntry {
	return ScheduleEntry{
		TaskID:         t.ID,
		Title:          t.Title,
		SubjectName:    t.SubjectName,
		EstimatedHours: t.EstimatedHours,
		Priority:       t.Priority,
		Deadline:       t.Deadline,
	}
}
