// Package notifications stores per-user notifications emitted by the
// scheduling flows and serves them to the client.
package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"study-planner-backend/internal/auth"
)

// Notification types.
const (
	TypeReschedule = "reschedule"
	TypeReminder   = "reminder"
)

type Notification struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"notification_type"`
	TaskID    *int      `json:"related_task_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Insert stores one notification for the user.
func Insert(ctx context.Context, db *sql.DB, userID int, n Notification) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, title, message, notification_type, related_task_id, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, n.Title, n.Message, n.Type, nullableIntPtr(n.TaskID), false,
	)
	return err
}

// ListHandler serves GET /api/notifications?unread_only=true, newest first.
func ListHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := `SELECT id, title, message, notification_type, related_task_id, is_read, created_at
			 FROM notifications
			 WHERE user_id = $1`
		if r.URL.Query().Get("unread_only") == "true" {
			q += ` AND is_read = false`
		}
		q += ` ORDER BY created_at DESC LIMIT 50`

		rows, err := db.QueryContext(r.Context(), q, uid)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Notification{}
		for rows.Next() {
			var (
				n      Notification
				taskID sql.NullInt64
			)
			if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Type, &taskID, &n.IsRead, &n.CreatedAt); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if taskID.Valid {
				id := int(taskID.Int64)
				n.TaskID = &id
			}
			result = append(result, n)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// MarkReadHandler serves POST /api/notifications/read
// {"notification_id": N}. notification_id 0 marks everything read.
func MarkReadHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			NotificationID int `json:"notification_id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		var (
			res sql.Result
			err error
		)
		if body.NotificationID == 0 {
			res, err = db.ExecContext(r.Context(),
				`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
				uid,
			)
		} else {
			res, err = db.ExecContext(r.Context(),
				`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
				body.NotificationID, uid,
			)
		}
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 && body.NotificationID != 0 {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func nullableIntPtr(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
