// Package reschedule moves tasks that fell behind: overdue push-out,
// incomplete-day rollover and workload balancing. The Plan* functions are
// pure and compute moves from a task snapshot; Service fetches the snapshot
// and writes the moves back.
package reschedule

import (
	"sort"
	"time"

	"study-planner-backend/internal/tasks"
)

const dateLayout = "2006-01-02"

// Reasons reported with each change.
const (
	ReasonOverdue   = "overdue"
	ReasonRollover  = "incomplete_rollover"
	ReasonBalancing = "workload_balancing"
)

// Change is the caller-visible record of one moved task. Deadline fields
// are set by the overdue strategy, date fields by all three.
type Change struct {
	TaskID      int        `json:"task_id"`
	Title       string     `json:"title"`
	OldDeadline *time.Time `json:"old_deadline,omitempty"`
	NewDeadline *time.Time `json:"new_deadline,omitempty"`
	OldDate     string     `json:"old_date,omitempty"`
	NewDate     string     `json:"new_date,omitempty"`
	Reason      string     `json:"reason"`
}

// Move is a planned task mutation: the update to apply plus the change to
// report once it sticks. Nil Deadline/Scheduled leave that field alone; an
// empty Status keeps the current one.
type Move struct {
	TaskID    int
	Deadline  *time.Time
	Scheduled *time.Time
	Status    string
	Change    Change
}

// NewDeadline pushes an overdue task's deadline out based on priority and
// how much work is left.
func NewDeadline(t tasks.Task, now time.Time) time.Time {
	days := baseDays(t.Priority)

	switch remaining := t.RemainingHours(); {
	case remaining > 5:
		days += 3
	case remaining > 3:
		days += 2
	case remaining > 1:
		days += 1
	}

	return now.AddDate(0, 0, days)
}

func baseDays(priority int) int {
	switch priority {
	case 5:
		return 2
	case 4:
		return 3
	case 3:
		return 5
	case 2:
		return 7
	default:
		return 10
	}
}

// NewScheduledDate picks the day an overdue task gets worked on next.
// Higher priority lands closer to today.
func NewScheduledDate(t tasks.Task, today time.Time) time.Time {
	days := 3
	if t.Priority >= 4 {
		days = 1
	} else if t.Priority >= 3 {
		days = 2
	}
	return dateOnly(today).AddDate(0, 0, days)
}

// PlanOverdue computes new deadlines and scheduled dates for overdue tasks.
// Completed and already-rescheduled tasks are left alone.
func PlanOverdue(ts []tasks.Task, now time.Time) []Move {
	var moves []Move

	for _, t := range ts {
		if t.Deadline == nil || !t.Deadline.Before(now) {
			continue
		}
		if t.Status == tasks.StatusCompleted || t.Status == tasks.StatusRescheduled {
			continue
		}

		deadline := NewDeadline(t, now)
		scheduled := NewScheduledDate(t, now)

		moves = append(moves, Move{
			TaskID:    t.ID,
			Deadline:  &deadline,
			Scheduled: &scheduled,
			Status:    tasks.StatusRescheduled,
			Change: Change{
				TaskID:      t.ID,
				Title:       t.Title,
				OldDeadline: t.Deadline,
				NewDeadline: &deadline,
				NewDate:     scheduled.Format(dateLayout),
				Reason:      ReasonOverdue,
			},
		})
	}

	return moves
}

// PlanRollover moves every not-completed task scheduled on targetDate to
// the next day.
func PlanRollover(ts []tasks.Task, targetDate time.Time) []Move {
	target := dateOnly(targetDate)
	next := target.AddDate(0, 0, 1)

	var moves []Move
	for _, t := range ts {
		if t.ScheduledDate == nil || !sameDate(*t.ScheduledDate, target) {
			continue
		}
		if t.Status == tasks.StatusCompleted {
			continue
		}

		scheduled := next
		moves = append(moves, Move{
			TaskID:    t.ID,
			Scheduled: &scheduled,
			Status:    tasks.StatusRescheduled,
			Change: Change{
				TaskID:  t.ID,
				Title:   t.Title,
				OldDate: target.Format(dateLayout),
				NewDate: next.Format(dateLayout),
				Reason:  ReasonRollover,
			},
		})
	}

	return moves
}

// PlanBalance offloads overloaded days onto the following day. For each day
// over the cap, lowest-priority tasks move first, one at a time, until the
// moved hours cover the excess. Single pass: day+1 is not re-checked for
// overload it may pick up from the moves.
func PlanBalance(ts []tasks.Task, maxHoursPerDay float64) []Move {
	byDate := map[string][]tasks.Task{}
	for _, t := range ts {
		if t.ScheduledDate == nil {
			continue
		}
		key := t.ScheduledDate.Format(dateLayout)
		byDate[key] = append(byDate[key], t)
	}

	dates := make([]string, 0, len(byDate))
	for key := range byDate {
		dates = append(dates, key)
	}
	sort.Strings(dates)

	var moves []Move
	for _, key := range dates {
		dayTasks := byDate[key]

		total := 0.0
		for _, t := range dayTasks {
			total += t.EstimatedHours
		}
		if total <= maxHoursPerDay {
			continue
		}

		sort.SliceStable(dayTasks, func(i, j int) bool {
			return dayTasks[i].Priority < dayTasks[j].Priority
		})

		excess := total - maxHoursPerDay
		moved := 0.0

		for _, t := range dayTasks {
			if moved >= excess {
				break
			}

			day, err := time.Parse(dateLayout, key)
			if err != nil {
				continue
			}
			next := day.AddDate(0, 0, 1)

			scheduled := next
			moves = append(moves, Move{
				TaskID:    t.ID,
				Scheduled: &scheduled,
				Change: Change{
					TaskID:  t.ID,
					Title:   t.Title,
					OldDate: key,
					NewDate: next.Format(dateLayout),
					Reason:  ReasonBalancing,
				},
			})
			moved += t.EstimatedHours
		}
	}

	return moves
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
