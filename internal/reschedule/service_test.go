package reschedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"study-planner-backend/internal/tasks"
)

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_time_format=sqlite")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE subjects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			subject_name TEXT NOT NULL,
			color TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			subject_id INTEGER,
			title TEXT NOT NULL,
			description TEXT,
			task_type TEXT NOT NULL,
			priority INTEGER NOT NULL,
			estimated_hours REAL NOT NULL DEFAULT 0,
			actual_hours REAL NOT NULL DEFAULT 0,
			completion_percentage REAL NOT NULL DEFAULT 0,
			deadline TIMESTAMP,
			scheduled_date TIMESTAMP,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			notification_type TEXT NOT NULL,
			related_task_id INTEGER,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`)
	require.NoError(t, err)

	return NewService(tasks.NewStore(db)), db
}

func TestAutoRescheduleAllNoTasks(t *testing.T) {
	svc, _ := newTestService(t)

	result := svc.AutoRescheduleAll(context.Background(), 1, testNow)

	assert.Empty(t, result.Error)
	assert.Equal(t, []Change{}, result.OverdueRescheduled)
	assert.Equal(t, []Change{}, result.IncompleteRescheduled)
	assert.Equal(t, []Change{}, result.WorkloadBalanced)

	// empty lists serialize as [], never null, and error stays out
	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"overdue_rescheduled":[]`)
	assert.Contains(t, string(raw), `"incomplete_rescheduled":[]`)
	assert.Contains(t, string(raw), `"workload_balanced":[]`)
	assert.NotContains(t, string(raw), `"error"`)
}

func TestAutoRescheduleAllPushesOverdueTask(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	deadline := testNow.AddDate(0, 0, -2)
	created, err := svc.Store.Create(ctx, tasks.Task{
		UserID:         1,
		Title:          "Organic chemistry revision",
		TaskType:       tasks.TypeRevision,
		Priority:       5,
		EstimatedHours: 1,
		Deadline:       &deadline,
		Status:         tasks.StatusPending,
	})
	require.NoError(t, err)

	result := svc.AutoRescheduleAll(ctx, 1, testNow)

	require.Empty(t, result.Error)
	require.Len(t, result.OverdueRescheduled, 1)
	assert.Equal(t, created.ID, result.OverdueRescheduled[0].TaskID)
	assert.Equal(t, ReasonOverdue, result.OverdueRescheduled[0].Reason)
	assert.Empty(t, result.IncompleteRescheduled)
	assert.Empty(t, result.WorkloadBalanced)

	got, err := svc.Store.GetByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, tasks.StatusRescheduled, got.Status)
	require.NotNil(t, got.Deadline)
	assert.True(t, got.Deadline.Equal(testNow.AddDate(0, 0, 2)), "priority 5 pushes the deadline out two days")
	require.NotNil(t, got.ScheduledDate)
	assert.Equal(t, "2026-03-11", got.ScheduledDate.Format(dateLayout))

	var count int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND notification_type = 'reschedule'`, 1,
	).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNotificationForRendersReason(t *testing.T) {
	n := notificationFor(Change{
		TaskID:  4,
		Title:   "Essay draft",
		OldDate: "2026-03-09",
		NewDate: "2026-03-10",
		Reason:  ReasonRollover,
	})

	assert.Equal(t, "Task rolled over", n.Title)
	assert.Equal(t, `"Essay draft" was not finished on 2026-03-09 and moved to 2026-03-10.`, n.Message)
	require.NotNil(t, n.TaskID)
	assert.Equal(t, 4, *n.TaskID)
}
