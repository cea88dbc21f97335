package tasks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"study-planner-backend/internal/analytics"
	"study-planner-backend/internal/auth"
)

type taskRequest struct {
	TaskID               int      `json:"task_id"`
	SubjectID            *int     `json:"subject_id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	TaskType             string   `json:"task_type"`
	Priority             int      `json:"priority"`
	EstimatedHours       float64  `json:"estimated_hours"`
	ActualHours          *float64 `json:"actual_hours"`
	CompletionPercentage *float64 `json:"completion_percentage"`
	Deadline             *string  `json:"deadline"`       // RFC 3339
	ScheduledDate        *string  `json:"scheduled_date"` // 2006-01-02
	Status               string   `json:"status"`
}

// validateTask turns a request body into a Task, rejecting malformed
// records at the boundary so bad fields never reach the scheduling core.
func validateTask(req taskRequest, userID int) (Task, error) {
	t := Task{
		UserID:      userID,
		SubjectID:   req.SubjectID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		TaskType:    req.TaskType,
		Priority:    req.Priority,
		Status:      req.Status,
	}

	if t.Title == "" {
		return Task{}, errors.New("title is required")
	}
	if t.TaskType == "" {
		t.TaskType = TypeStudy
	}
	if !ValidTaskType(t.TaskType) {
		return Task{}, errors.New("invalid task_type")
	}
	if t.Priority == 0 {
		t.Priority = 1
	}
	if t.Priority < 1 || t.Priority > 5 {
		return Task{}, errors.New("priority must be 1-5")
	}
	if req.EstimatedHours < 0 {
		return Task{}, errors.New("estimated_hours must be >= 0")
	}
	t.EstimatedHours = req.EstimatedHours
	if t.EstimatedHours == 0 {
		t.EstimatedHours = 1
	}
	if req.ActualHours != nil {
		if *req.ActualHours < 0 {
			return Task{}, errors.New("actual_hours must be >= 0")
		}
		t.ActualHours = *req.ActualHours
	}
	if req.CompletionPercentage != nil {
		if *req.CompletionPercentage < 0 || *req.CompletionPercentage > 100 {
			return Task{}, errors.New("completion_percentage must be 0-100")
		}
		t.CompletionPercentage = *req.CompletionPercentage
	}
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !ValidStatus(t.Status) {
		return Task{}, errors.New("invalid status")
	}

	if req.Deadline != nil && *req.Deadline != "" {
		d, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			return Task{}, errors.New("invalid deadline, want RFC 3339")
		}
		t.Deadline = &d
	}
	if req.ScheduledDate != nil && *req.ScheduledDate != "" {
		d, err := time.Parse("2006-01-02", *req.ScheduledDate)
		if err != nil {
			return Task{}, errors.New("invalid scheduled_date, want YYYY-MM-DD")
		}
		t.ScheduledDate = &d
	}

	return t, nil
}

// -------------------------------
// HANDLERS
// -------------------------------

func ListHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		status := r.URL.Query().Get("status")
		if status != "" && !ValidStatus(status) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		result, err := store.GetByUser(r.Context(), uid, status, limit)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Task{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func CreateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := validateTask(req, uid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		created, err := store.Create(r.Context(), t)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), store.DB, env, analytics.EventTaskCreated, map[string]any{
			"task_id":      created.ID,
			"task_type":    created.TaskType,
			"priority":     created.Priority,
			"has_deadline": created.Deadline != nil,
		}, analytics.EventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(created)
	}
}

func UpdateHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req taskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		t, err := validateTask(req, uid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t.ID = req.TaskID

		if err := store.Update(r.Context(), t); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "task not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), store.DB, env, analytics.EventTaskUpdated, map[string]any{
			"task_id": t.ID,
		}, analytics.EventKeyFromRequest(r))

		full, err := store.GetByID(r.Context(), uid, t.ID)
		if err != nil {
			log.Printf("[WARN] fetch after update failed task_id=%d: %v", t.ID, err)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(t)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(full)
	}
}

func DeleteHandler(store *Store) http.HandlerFunc {
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

		if err := store.Delete(r.Context(), uid, taskID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "task not found", http.StatusNotFound)
				return
			}
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func SetStatusHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int    `json:"task_id"`
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if !ValidStatus(body.Status) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		prev, err := store.GetByID(r.Context(), uid, body.TaskID)
		if err != nil {
			http.Error(w, "task not found", http.StatusNotFound)
			return
		}

		if err := store.UpdateSchedule(r.Context(), uid, body.TaskID, nil, nil, body.Status); err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		if prev.Status != StatusCompleted && body.Status == StatusCompleted {
			env := analytics.FromRequest(r)
			env.UserID = uid
			_ = analytics.Log(r.Context(), store.DB, env, analytics.EventTaskCompleted, map[string]any{
				"task_id":   body.TaskID,
				"task_type": prev.TaskType,
				"priority":  prev.Priority,
			}, analytics.EventKeyFromRequest(r))
		}

		full, err := store.GetByID(r.Context(), uid, body.TaskID)
		if err != nil {
			http.Error(w, "fetch error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(full)
	}
}

func OverdueHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := store.GetOverdue(r.Context(), uid, time.Now())
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if result == nil {
			result = []Task{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
