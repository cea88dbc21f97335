// Package planner holds the scheduling core: priority scoring, schedule
// suggestion, workload analysis and study-time allocation. Everything here
// is pure computation over task snapshots; fetching and persisting tasks is
// the handlers' job.
package planner

import (
	"math"
	"sort"
	"time"

	"study-planner-backend/internal/tasks"
)

const dateLayout = "2006-01-02"

// PriorityScore computes the urgency score used to order tasks within a
// single scheduling call. Additive: base priority, deadline proximity,
// task type, completion state. Higher means schedule sooner.
func PriorityScore(t tasks.Task, now time.Time) int {
	score := t.Priority * 20

	if t.Deadline != nil {
		// floor of the signed duration, so a deadline two hours ago is day -1
		daysUntil := int(math.Floor(t.Deadline.Sub(now).Hours() / 24))

		switch {
		case daysUntil < 0:
			score += 100 // overdue
		case daysUntil == 0:
			score += 80 // due today
		case daysUntil == 1:
			score += 60 // due tomorrow
		case daysUntil <= 3:
			score += 40
		case daysUntil <= 7:
			score += 20
		default:
			score += 10
		}
	}

	switch t.TaskType {
	case tasks.TypeExam:
		score += 30
	case tasks.TypeAssignment:
		score += 25
	case tasks.TypeRevision:
		score += 15
	default:
		score += 10
	}

	// favor tasks with less work done
	switch {
	case t.CompletionPercentage < 25:
		score += 15
	case t.CompletionPercentage < 50:
		score += 10
	case t.CompletionPercentage < 75:
		score += 5
	}

	return score
}

// scoredTask pairs a task with its score for one scheduling call.
type scoredTask struct {
	task  tasks.Task
	score int
}

// rank scores every task and stable-sorts descending, so equal scores keep
// their original relative order.
func rank(ts []tasks.Task, now time.Time) []scoredTask {
	scored := make([]scoredTask, 0, len(ts))
	for _, t := range ts {
		scored = append(scored, scoredTask{task: t, score: PriorityScore(t, now)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
