package analytics

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

// Overview is the /api/analytics/overview payload: headline numbers for the
// dashboard, scoped to the last 30 days of sessions.
type Overview struct {
	TotalTasks        int     `json:"total_tasks"`
	CompletedTasks    int     `json:"completed_tasks"`
	PendingTasks      int     `json:"pending_tasks"`
	OverdueTasks      int     `json:"overdue_tasks"`
	CompletionRate    float64 `json:"completion_rate"`
	TotalStudyHours   float64 `json:"total_study_hours"`
	SessionsLast30d   int     `json:"sessions_last_30_days"`
	StudyHoursLast30d float64 `json:"study_hours_last_30_days"`
}

func OverviewHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var o Overview

		err := db.QueryRowContext(r.Context(), `
			SELECT
				COUNT(*),
				COUNT(*) FILTER (WHERE status = 'completed'),
				COUNT(*) FILTER (WHERE status = 'pending'),
				COUNT(*) FILTER (WHERE deadline IS NOT NULL AND deadline < $2 AND status NOT IN ('completed', 'rescheduled')),
				COALESCE(SUM(actual_hours), 0)
			FROM tasks
			WHERE user_id = $1
		`, uid, time.Now()).Scan(
			&o.TotalTasks, &o.CompletedTasks, &o.PendingTasks, &o.OverdueTasks,
			&o.TotalStudyHours,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if o.TotalTasks > 0 {
			o.CompletionRate = float64(o.CompletedTasks) / float64(o.TotalTasks) * 100
		}

		since := time.Now().AddDate(0, 0, -30)
		err = db.QueryRowContext(r.Context(), `
			SELECT COUNT(*), COALESCE(SUM(duration_hours), 0)
			FROM study_sessions
			WHERE user_id = $1 AND start_time >= $2
		`, uid, since).Scan(&o.SessionsLast30d, &o.StudyHoursLast30d)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(o)
	}
}
