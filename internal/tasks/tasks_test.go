package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemainingHours(t *testing.T) {
	tests := []struct {
		name       string
		estimated  float64
		completion float64
		want       float64
	}{
		{"untouched", 4, 0, 4},
		{"half done", 4, 50, 2},
		{"finished", 4, 100, 0},
		{"odd split", 3, 25, 2.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{EstimatedHours: tt.estimated, CompletionPercentage: tt.completion}
			assert.InDelta(t, tt.want, task.RemainingHours(), 1e-9)
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusCompleted, StatusRescheduled, StatusOverdue} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}

func TestValidTaskType(t *testing.T) {
	for _, s := range []string{TypeExam, TypeAssignment, TypeRevision, TypeStudy, TypeOther} {
		assert.True(t, ValidTaskType(s), s)
	}
	assert.False(t, ValidTaskType("chore"))
}

func strPtr(s string) *string { return &s }

func TestValidateTaskDefaults(t *testing.T) {
	got, err := validateTask(taskRequest{Title: "  read chapter 4  "}, 7)

	require.NoError(t, err)
	assert.Equal(t, 7, got.UserID)
	assert.Equal(t, "read chapter 4", got.Title)
	assert.Equal(t, TypeStudy, got.TaskType)
	assert.Equal(t, 1, got.Priority)
	assert.Equal(t, 1.0, got.EstimatedHours)
	assert.Equal(t, StatusPending, got.Status)
	assert.Nil(t, got.Deadline)
	assert.Nil(t, got.ScheduledDate)
}

func TestValidateTaskParsesDates(t *testing.T) {
	got, err := validateTask(taskRequest{
		Title:         "exam prep",
		TaskType:      TypeExam,
		Priority:      5,
		Deadline:      strPtr("2026-03-20T18:00:00Z"),
		ScheduledDate: strPtr("2026-03-15"),
	}, 1)

	require.NoError(t, err)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2026-03-20T18:00:00Z", got.Deadline.Format("2006-01-02T15:04:05Z07:00"))
	require.NotNil(t, got.ScheduledDate)
	assert.Equal(t, "2026-03-15", got.ScheduledDate.Format("2006-01-02"))
}

func TestValidateTaskRejections(t *testing.T) {
	completion := 150.0
	hours := -1.0

	tests := []struct {
		name string
		req  taskRequest
	}{
		{"missing title", taskRequest{}},
		{"blank title", taskRequest{Title: "   "}},
		{"bad task type", taskRequest{Title: "t", TaskType: "chore"}},
		{"priority too high", taskRequest{Title: "t", Priority: 6}},
		{"negative estimate", taskRequest{Title: "t", EstimatedHours: -2}},
		{"negative actual hours", taskRequest{Title: "t", ActualHours: &hours}},
		{"completion out of range", taskRequest{Title: "t", CompletionPercentage: &completion}},
		{"bad status", taskRequest{Title: "t", Status: "paused"}},
		{"bad deadline format", taskRequest{Title: "t", Deadline: strPtr("20-03-2026")}},
		{"bad scheduled date format", taskRequest{Title: "t", ScheduledDate: strPtr("03/15/2026")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validateTask(tt.req, 1)
			assert.Error(t, err)
		})
	}
}
