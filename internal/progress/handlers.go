package progress

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"study-planner-backend/internal/analytics"
	"study-planner-backend/internal/auth"
)

// UpdateHandler serves POST /api/progress
// {"task_id": N, "hours_spent": H, "completion_percentage": C, "notes": ""}
func UpdateHandler(tr *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID               int     `json:"task_id"`
			HoursSpent           float64 `json:"hours_spent"`
			CompletionPercentage float64 `json:"completion_percentage"`
			Notes                string  `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if body.HoursSpent < 0 || body.CompletionPercentage < 0 || body.CompletionPercentage > 100 {
			http.Error(w, "hours_spent must be >= 0 and completion_percentage 0-100", http.StatusBadRequest)
			return
		}

		task, entry, err := tr.UpdateTaskProgress(r.Context(), uid, body.TaskID, body.HoursSpent, body.CompletionPercentage, body.Notes)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"task":             task,
			"progress_entry":   entry,
			"completion_delta": entry.CompletionDelta,
		})
	}
}

// SessionHandler serves POST /api/sessions
// {"task_id": N, "start_time": ts, "end_time": ts, "notes": "", "focus_score": 1-10}
func SessionHandler(tr *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID     int    `json:"task_id"`
			StartTime  string `json:"start_time"`
			EndTime    string `json:"end_time"`
			Notes      string `json:"notes"`
			FocusScore *int   `json:"focus_score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 || body.StartTime == "" {
			http.Error(w, "task_id and start_time required", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(time.RFC3339, body.StartTime)
		if err != nil {
			http.Error(w, "invalid start_time, want RFC 3339", http.StatusBadRequest)
			return
		}
		var end *time.Time
		if body.EndTime != "" {
			e, err := time.Parse(time.RFC3339, body.EndTime)
			if err != nil {
				http.Error(w, "invalid end_time, want RFC 3339", http.StatusBadRequest)
				return
			}
			if e.Before(start) {
				http.Error(w, "end_time before start_time", http.StatusBadRequest)
				return
			}
			end = &e
		}
		if body.FocusScore != nil && (*body.FocusScore < 1 || *body.FocusScore > 10) {
			http.Error(w, "focus_score must be 1-10", http.StatusBadRequest)
			return
		}

		session, err := tr.LogSession(r.Context(), uid, body.TaskID, start, end, body.Notes, body.FocusScore)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "task not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), tr.DB, env, analytics.EventSessionLogged, map[string]any{
			"task_id":        body.TaskID,
			"duration_hours": session.DurationHours,
		}, analytics.EventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(session)
	}
}

// AnalyticsHandler serves GET /api/tasks/analytics?task_id=
func AnalyticsHandler(tr *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, _ := strconv.Atoi(r.URL.Query().Get("task_id"))
		if taskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		result, err := tr.Analytics(r.Context(), uid, taskID)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
