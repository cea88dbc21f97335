package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"study-planner-backend/internal/tasks"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func deadlineIn(d time.Duration) *time.Time {
	t := testNow.Add(d)
	return &t
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name string
		task tasks.Task
		want int
	}{
		{
			name: "base only, no deadline, study type, untouched",
			task: tasks.Task{Priority: 3, TaskType: tasks.TypeStudy},
			want: 60 + 10 + 15,
		},
		{
			name: "overdue deadline",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(-26 * time.Hour)},
			want: 20 + 100 + 10 + 15,
		},
		{
			name: "one hour overdue still counts as overdue",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(-time.Hour)},
			want: 20 + 100 + 10 + 15,
		},
		{
			name: "due today",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(2 * time.Hour)},
			want: 20 + 80 + 10 + 15,
		},
		{
			name: "due tomorrow",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(30 * time.Hour)},
			want: 20 + 60 + 10 + 15,
		},
		{
			name: "due within three days",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(60 * time.Hour)},
			want: 20 + 40 + 10 + 15,
		},
		{
			name: "due within a week",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(5 * 24 * time.Hour)},
			want: 20 + 20 + 10 + 15,
		},
		{
			name: "due later",
			task: tasks.Task{Priority: 1, TaskType: tasks.TypeStudy, Deadline: deadlineIn(10 * 24 * time.Hour)},
			want: 20 + 10 + 10 + 15,
		},
		{
			name: "exam weight",
			task: tasks.Task{Priority: 2, TaskType: tasks.TypeExam},
			want: 40 + 30 + 15,
		},
		{
			name: "assignment weight",
			task: tasks.Task{Priority: 2, TaskType: tasks.TypeAssignment},
			want: 40 + 25 + 15,
		},
		{
			name: "revision weight",
			task: tasks.Task{Priority: 2, TaskType: tasks.TypeRevision},
			want: 40 + 15 + 15,
		},
		{
			name: "unknown type falls back to default weight",
			task: tasks.Task{Priority: 2, TaskType: "something-else"},
			want: 40 + 10 + 15,
		},
		{
			name: "completion 25 loses the top bonus",
			task: tasks.Task{Priority: 2, TaskType: tasks.TypeStudy, CompletionPercentage: 25},
			want: 40 + 10 + 10,
		},
		{
			name: "completion 60",
			task: tasks.Task{Priority: 2, TaskType: tasks.TypeStudy, CompletionPercentage: 60},
			want: 40 + 10 + 5,
		},
		{
			name: "completion 75 gets nothing",
			task: tasks.Task{Priority: 2, TaskType: tasks.TypeStudy, CompletionPercentage: 75},
			want: 40 + 10,
		},
		{
			name: "maximum realistic score",
			task: tasks.Task{Priority: 5, TaskType: tasks.TypeExam, Deadline: deadlineIn(-24 * time.Hour)},
			want: 245,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityScore(tt.task, testNow))
		})
	}
}

func TestPriorityScoreNeverBelowBase(t *testing.T) {
	for priority := 1; priority <= 5; priority++ {
		for _, completion := range []float64{0, 25, 50, 75, 100} {
			task := tasks.Task{Priority: priority, TaskType: tasks.TypeStudy, CompletionPercentage: completion}
			assert.GreaterOrEqual(t, PriorityScore(task, testNow), priority*20)
		}
	}
}

func TestOverdueOutscoresNearDeadline(t *testing.T) {
	overdue := tasks.Task{Priority: 3, TaskType: tasks.TypeStudy, Deadline: deadlineIn(-time.Hour)}
	upcoming := overdue
	upcoming.Deadline = deadlineIn(72 * time.Hour)

	assert.Equal(t, 60, PriorityScore(overdue, testNow)-PriorityScore(upcoming, testNow))
}
