package tasks

import (
	"context"
	"database/sql"
	"strconv"
	"time"
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

const taskColumns = `
	t.id, t.user_id, t.subject_id, COALESCE(s.subject_name, ''),
	t.title, COALESCE(t.description, ''),
	t.task_type, t.priority,
	t.estimated_hours, t.actual_hours, t.completion_percentage,
	t.deadline, t.scheduled_date, t.status, t.created_at`

const taskFrom = `
	FROM tasks t
	LEFT JOIN subjects s ON s.id = t.subject_id`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var (
		t         Task
		subjectID sql.NullInt64
		deadline  sql.NullTime
		scheduled sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.UserID, &subjectID, &t.SubjectName,
		&t.Title, &t.Description,
		&t.TaskType, &t.Priority,
		&t.EstimatedHours, &t.ActualHours, &t.CompletionPercentage,
		&deadline, &scheduled, &t.Status, &t.CreatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	if subjectID.Valid {
		id := int(subjectID.Int64)
		t.SubjectID = &id
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if scheduled.Valid {
		d := scheduled.Time
		t.ScheduledDate = &d
	}
	return t, nil
}

func collectTasks(rows *sql.Rows) ([]Task, error) {
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, userID, taskID int) (Task, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT`+taskColumns+taskFrom+`
		WHERE t.id = $1 AND t.user_id = $2`,
		taskID, userID,
	)
	return scanTask(row)
}

// GetByUser returns the user's tasks, optionally filtered by status.
// limit <= 0 means no limit.
func (s *Store) GetByUser(ctx context.Context, userID int, status string, limit int) ([]Task, error) {
	q := `SELECT` + taskColumns + taskFrom + `
		WHERE t.user_id = $1`
	args := []any{userID}

	if status != "" {
		q += ` AND t.status = $2`
		args = append(args, status)
	}
	q += ` ORDER BY t.priority DESC, t.created_at ASC`
	if limit > 0 {
		q += ` LIMIT ` + strconv.Itoa(limit)
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// GetByDateRange returns tasks scheduled between start and end inclusive.
func (s *Store) GetByDateRange(ctx context.Context, userID int, start, end time.Time) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT`+taskColumns+taskFrom+`
		WHERE t.user_id = $1
		  AND t.scheduled_date >= $2 AND t.scheduled_date <= $3
		ORDER BY t.scheduled_date ASC, t.priority DESC`,
		userID, start, end,
	)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// GetOverdue returns tasks whose deadline has passed and that are still
// actionable (not completed, not already rescheduled).
func (s *Store) GetOverdue(ctx context.Context, userID int, now time.Time) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT`+taskColumns+taskFrom+`
		WHERE t.user_id = $1
		  AND t.deadline IS NOT NULL AND t.deadline < $2
		  AND t.status NOT IN ('completed', 'rescheduled')
		ORDER BY t.deadline ASC`,
		userID, now,
	)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (s *Store) Create(ctx context.Context, t Task) (Task, error) {
	row := s.DB.QueryRowContext(ctx,
		`INSERT INTO tasks (
			user_id, subject_id, title, description, task_type, priority,
			estimated_hours, actual_hours, completion_percentage,
			deadline, scheduled_date, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at`,
		t.UserID, nullableIntPtr(t.SubjectID), t.Title, t.Description,
		t.TaskType, t.Priority,
		t.EstimatedHours, t.ActualHours, t.CompletionPercentage,
		nullableTime(t.Deadline), nullableTime(t.ScheduledDate), t.Status,
	)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, t Task) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET
			subject_id = $1, title = $2, description = $3,
			task_type = $4, priority = $5,
			estimated_hours = $6, actual_hours = $7, completion_percentage = $8,
			deadline = $9, scheduled_date = $10, status = $11
		WHERE id = $12 AND user_id = $13`,
		nullableIntPtr(t.SubjectID), t.Title, t.Description,
		t.TaskType, t.Priority,
		t.EstimatedHours, t.ActualHours, t.CompletionPercentage,
		nullableTime(t.Deadline), nullableTime(t.ScheduledDate), t.Status,
		t.ID, t.UserID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateSchedule moves a task's dates and status, scoped to the owner.
// nil leaves deadline or scheduled_date unchanged, an empty status keeps
// the current one.
func (s *Store) UpdateSchedule(ctx context.Context, userID, taskID int, deadline, scheduledDate *time.Time, status string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET
			deadline = COALESCE($1, deadline),
			scheduled_date = COALESCE($2, scheduled_date),
			status = CASE WHEN $3 = '' THEN status ELSE $3 END
		WHERE id = $4 AND user_id = $5`,
		nullableTime(deadline), nullableTime(scheduledDate), status,
		taskID, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateProgress applies a progress update to the task row, scoped to the
// owner.
func (s *Store) UpdateProgress(ctx context.Context, userID, taskID int, completion, actualHours float64, status string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET
			completion_percentage = $1, actual_hours = $2, status = $3
		WHERE id = $4 AND user_id = $5`,
		completion, actualHours, status, taskID, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) AddActualHours(ctx context.Context, userID, taskID int, hours float64) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET actual_hours = actual_hours + $1 WHERE id = $2 AND user_id = $3`,
		hours, taskID, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Store) Delete(ctx context.Context, userID, taskID int) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// ----------------------
//       HELPERS
// ----------------------

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullableIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
