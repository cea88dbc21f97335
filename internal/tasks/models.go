package tasks

import "time"

// Task statuses.
const (
	StatusPending     = "pending"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusRescheduled = "rescheduled"
	StatusOverdue     = "overdue"
)

// Task types.
const (
	TypeExam       = "exam"
	TypeAssignment = "assignment"
	TypeRevision   = "revision"
	TypeStudy      = "study"
	TypeOther      = "other"
)

type Task struct {
	ID                   int        `json:"id"`
	UserID               int        `json:"user_id"`
	SubjectID            *int       `json:"subject_id,omitempty"`
	SubjectName          string     `json:"subject_name,omitempty"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	TaskType             string     `json:"task_type"`
	Priority             int        `json:"priority"`
	EstimatedHours       float64    `json:"estimated_hours"`
	ActualHours          float64    `json:"actual_hours"`
	CompletionPercentage float64    `json:"completion_percentage"`
	Deadline             *time.Time `json:"deadline,omitempty"`
	ScheduledDate        *time.Time `json:"scheduled_date,omitempty"`
	Status               string     `json:"status"`
	CreatedAt            time.Time  `json:"created_at"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusRescheduled, StatusOverdue:
		return true
	}
	return false
}

func ValidTaskType(s string) bool {
	switch s {
	case TypeExam, TypeAssignment, TypeRevision, TypeStudy, TypeOther:
		return true
	}
	return false
}

// RemainingHours is the estimated effort still outstanding.
func (t Task) RemainingHours() float64 {
	return t.EstimatedHours * (100 - t.CompletionPercentage) / 100
}
