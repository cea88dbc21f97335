package reschedule

import (
	"context"
	"fmt"
	"log"
	"time"

	"study-planner-backend/internal/notifications"
	"study-planner-backend/internal/tasks"
)

// Defaults for the combined pass.
const (
	DefaultBalanceDays    = 7
	DefaultMaxHoursPerDay = 6.0
)

type Service struct {
	Store *tasks.Store
}

func NewService(store *tasks.Store) *Service {
	return &Service{Store: store}
}

// AutoResult aggregates one combined rescheduling pass. Error is set when a
// strategy failed; the lists before it still hold whatever was applied.
type AutoResult struct {
	OverdueRescheduled    []Change `json:"overdue_rescheduled"`
	IncompleteRescheduled []Change `json:"incomplete_rescheduled"`
	WorkloadBalanced      []Change `json:"workload_balanced"`
	Timestamp             string   `json:"timestamp"`
	Error                 string   `json:"error,omitempty"`
}

// RescheduleOverdue pushes out every actionable overdue task.
func (s *Service) RescheduleOverdue(ctx context.Context, userID int, now time.Time) ([]Change, error) {
	overdue, err := s.Store.GetOverdue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, PlanOverdue(overdue, now)), nil
}

// RolloverIncomplete moves the not-completed tasks of targetDate to the
// next day.
func (s *Service) RolloverIncomplete(ctx context.Context, userID int, targetDate time.Time) ([]Change, error) {
	target := dateOnly(targetDate)
	ts, err := s.Store.GetByDateRange(ctx, userID, target, target)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, PlanRollover(ts, target)), nil
}

// BalanceWorkload spreads out overloaded days within the upcoming window.
func (s *Service) BalanceWorkload(ctx context.Context, userID, daysAhead int, maxHoursPerDay float64, now time.Time) ([]Change, error) {
	start := dateOnly(now)
	end := start.AddDate(0, 0, daysAhead)

	ts, err := s.Store.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, userID, PlanBalance(ts, maxHoursPerDay)), nil
}

// AutoRescheduleAll runs the three strategies in order: overdue push-out,
// rollover of yesterday's leftovers, workload balancing. A failing strategy
// stops the pass but the result keeps everything already applied.
func (s *Service) AutoRescheduleAll(ctx context.Context, userID int, now time.Time) AutoResult {
	result := AutoResult{
		OverdueRescheduled:    []Change{},
		IncompleteRescheduled: []Change{},
		WorkloadBalanced:      []Change{},
		Timestamp:             now.Format(time.RFC3339),
	}

	changes, err := s.RescheduleOverdue(ctx, userID, now)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.OverdueRescheduled = changes

	yesterday := dateOnly(now).AddDate(0, 0, -1)
	changes, err = s.RolloverIncomplete(ctx, userID, yesterday)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.IncompleteRescheduled = changes

	changes, err = s.BalanceWorkload(ctx, userID, DefaultBalanceDays, DefaultMaxHoursPerDay, now)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.WorkloadBalanced = changes

	return result
}

// apply writes moves through the store and leaves a notification per
// applied change. A task that fails to update is logged and skipped, the
// batch keeps going.
func (s *Service) apply(ctx context.Context, userID int, moves []Move) []Change {
	changes := []Change{}
	for _, m := range moves {
		if err := s.Store.UpdateSchedule(ctx, userID, m.TaskID, m.Deadline, m.Scheduled, m.Status); err != nil {
			log.Printf("[WARN] reschedule: task %d not updated: %v", m.TaskID, err)
			continue
		}
		if err := notifications.Insert(ctx, s.Store.DB, userID, notificationFor(m.Change)); err != nil {
			log.Printf("[WARN] reschedule: notification for task %d not stored: %v", m.TaskID, err)
		}
		changes = append(changes, m.Change)
	}
	return changes
}

// notificationFor renders the user-facing notification for one move.
func notificationFor(c Change) notifications.Notification {
	taskID := c.TaskID
	n := notifications.Notification{
		Type:   notifications.TypeReschedule,
		TaskID: &taskID,
	}

	switch c.Reason {
	case ReasonOverdue:
		n.Title = "Overdue task rescheduled"
		n.Message = fmt.Sprintf("%q was overdue and is now planned for %s.", c.Title, c.NewDate)
	case ReasonRollover:
		n.Title = "Task rolled over"
		n.Message = fmt.Sprintf("%q was not finished on %s and moved to %s.", c.Title, c.OldDate, c.NewDate)
	default:
		n.Title = "Workload balanced"
		n.Message = fmt.Sprintf("%q moved from %s to %s to lighten the day.", c.Title, c.OldDate, c.NewDate)
	}
	return n
}
