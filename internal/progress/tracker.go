// Package progress records study work against tasks: progress updates,
// study sessions and per-task analytics.
package progress

import (
	"context"
	"database/sql"
	"math"
	"time"

	"study-planner-backend/internal/tasks"
)

type Entry struct {
	ID              int       `json:"id"`
	TaskID          int       `json:"task_id"`
	ProgressDate    string    `json:"progress_date"`
	HoursSpent      float64   `json:"hours_spent"`
	CompletionDelta float64   `json:"completion_delta"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type Session struct {
	ID            int        `json:"id"`
	TaskID        int        `json:"task_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DurationHours float64    `json:"duration_hours"`
	Notes         string     `json:"notes,omitempty"`
	FocusScore    *int       `json:"focus_score,omitempty"`
}

type Tracker struct {
	DB    *sql.DB
	Tasks *tasks.Store
}

func NewTracker(db *sql.DB, store *tasks.Store) *Tracker {
	return &Tracker{DB: db, Tasks: store}
}

// UpdateTaskProgress applies a progress update: bumps completion and actual
// hours on the task, derives the status (100% completes the task, first
// progress on a pending task starts it) and records a history entry.
func (tr *Tracker) UpdateTaskProgress(ctx context.Context, userID, taskID int, hoursSpent, completion float64, notes string) (tasks.Task, Entry, error) {
	t, err := tr.Tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return tasks.Task{}, Entry{}, err
	}

	delta := completion - t.CompletionPercentage

	status := t.Status
	if completion >= 100 {
		status = tasks.StatusCompleted
	} else if t.Status == tasks.StatusPending {
		status = tasks.StatusInProgress
	}

	if err := tr.Tasks.UpdateProgress(ctx, userID, taskID, completion, t.ActualHours+hoursSpent, status); err != nil {
		return tasks.Task{}, Entry{}, err
	}

	entry := Entry{
		TaskID:          taskID,
		ProgressDate:    time.Now().Format("2006-01-02"),
		HoursSpent:      hoursSpent,
		CompletionDelta: delta,
		Notes:           notes,
	}
	err = tr.DB.QueryRowContext(ctx,
		`INSERT INTO task_progress (task_id, user_id, progress_date, hours_spent, completion_delta, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		taskID, userID, entry.ProgressDate, hoursSpent, delta, notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return tasks.Task{}, Entry{}, err
	}

	updated, err := tr.Tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return tasks.Task{}, Entry{}, err
	}
	return updated, entry, nil
}

// LogSession records a study session and adds its duration to the task's
// actual hours.
func (tr *Tracker) LogSession(ctx context.Context, userID, taskID int, start time.Time, end *time.Time, notes string, focusScore *int) (Session, error) {
	if _, err := tr.Tasks.GetByID(ctx, userID, taskID); err != nil {
		return Session{}, err
	}

	s := Session{
		TaskID:     taskID,
		StartTime:  start,
		EndTime:    end,
		Notes:      notes,
		FocusScore: focusScore,
	}
	if end != nil {
		s.DurationHours = end.Sub(start).Hours()
	}

	err := tr.DB.QueryRowContext(ctx,
		`INSERT INTO study_sessions (task_id, user_id, start_time, end_time, duration_hours, notes, focus_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		taskID, userID, start, nullableTime(end), s.DurationHours, notes, nullableInt(focusScore),
	).Scan(&s.ID)
	if err != nil {
		return Session{}, err
	}

	if s.DurationHours > 0 {
		if err := tr.Tasks.AddActualHours(ctx, userID, taskID, s.DurationHours); err != nil {
			return Session{}, err
		}
	}

	return s, nil
}

type Metrics struct {
	EstimatedHours    float64  `json:"estimated_hours"`
	ActualHours       float64  `json:"actual_hours"`
	Completion        float64  `json:"completion_percentage"`
	HoursRemaining    float64  `json:"hours_remaining"`
	EfficiencyScore   float64  `json:"efficiency_score"`
	AverageFocusScore *float64 `json:"average_focus_score,omitempty"`
	TotalSessions     int      `json:"total_sessions"`
	IsOnTrack         bool     `json:"is_on_track"`
}

type TaskAnalytics struct {
	Task            tasks.Task `json:"task"`
	ProgressHistory []Entry    `json:"progress_history"`
	StudySessions   []Session  `json:"study_sessions"`
	Metrics         Metrics    `json:"metrics"`
}

// Analytics assembles the task's progress history, sessions and derived
// metrics. Efficiency relates completion achieved to hours spent against
// the estimate.
func (tr *Tracker) Analytics(ctx context.Context, userID, taskID int) (TaskAnalytics, error) {
	t, err := tr.Tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		return TaskAnalytics{}, err
	}

	history, err := tr.historyByTask(ctx, taskID)
	if err != nil {
		return TaskAnalytics{}, err
	}
	sessions, err := tr.sessionsByTask(ctx, taskID)
	if err != nil {
		return TaskAnalytics{}, err
	}

	m := Metrics{
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Completion:     t.CompletionPercentage,
		HoursRemaining: math.Max(0, t.EstimatedHours-t.ActualHours),
		TotalSessions:  len(sessions),
		IsOnTrack:      t.CompletionPercentage >= 100 || t.ActualHours <= t.EstimatedHours,
	}

	if t.ActualHours > 0 && t.CompletionPercentage > 0 && t.EstimatedHours > 0 {
		eff := (t.CompletionPercentage / 100) / (t.ActualHours / t.EstimatedHours)
		m.EfficiencyScore = math.Round(eff*100) / 100
	}

	var focusSum, focusN int
	for _, s := range sessions {
		if s.FocusScore != nil {
			focusSum += *s.FocusScore
			focusN++
		}
	}
	if focusN > 0 {
		avg := math.Round(float64(focusSum)/float64(focusN)*10) / 10
		m.AverageFocusScore = &avg
	}

	return TaskAnalytics{
		Task:            t,
		ProgressHistory: history,
		StudySessions:   sessions,
		Metrics:         m,
	}, nil
}

func (tr *Tracker) historyByTask(ctx context.Context, taskID int) ([]Entry, error) {
	rows, err := tr.DB.QueryContext(ctx,
		`SELECT id, task_id, progress_date, hours_spent, completion_delta, COALESCE(notes, ''), created_at
		 FROM task_progress
		 WHERE task_id = $1
		 ORDER BY created_at ASC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e    Entry
			date time.Time
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &date, &e.HoursSpent, &e.CompletionDelta, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ProgressDate = date.Format("2006-01-02")
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (tr *Tracker) sessionsByTask(ctx context.Context, taskID int) ([]Session, error) {
	rows, err := tr.DB.QueryContext(ctx,
		`SELECT id, task_id, start_time, end_time, duration_hours, COALESCE(notes, ''), focus_score
		 FROM study_sessions
		 WHERE task_id = $1
		 ORDER BY start_time ASC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var (
			s     Session
			end   sql.NullTime
			focus sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.TaskID, &s.StartTime, &end, &s.DurationHours, &s.Notes, &focus); err != nil {
			return nil, err
		}
		if end.Valid {
			t := end.Time
			s.EndTime = &t
		}
		if focus.Valid {
			f := int(focus.Int64)
			s.FocusScore = &f
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
