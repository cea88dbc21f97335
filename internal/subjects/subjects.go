package subjects

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"study-planner-backend/internal/auth"
)

type Subject struct {
	ID          int       `json:"id"`
	SubjectName string    `json:"subject_name"`
	ColorCode   string    `json:"color_code"`
	Priority    int       `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

func ListHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := db.QueryContext(r.Context(),
			`SELECT id, subject_name, color_code, priority, created_at
			 FROM subjects
			 WHERE user_id = $1
			 ORDER BY priority DESC, subject_name ASC`,
			uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []Subject{}
		for rows.Next() {
			var s Subject
			if err := rows.Scan(&s.ID, &s.SubjectName, &s.ColorCode, &s.Priority, &s.CreatedAt); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			result = append(result, s)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func CreateHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			SubjectName string `json:"subject_name"`
			ColorCode   string `json:"color_code"`
			Priority    int    `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		body.SubjectName = strings.TrimSpace(body.SubjectName)
		if body.SubjectName == "" {
			http.Error(w, "subject_name is required", http.StatusBadRequest)
			return
		}
		if body.ColorCode == "" {
			body.ColorCode = "#3B82F6"
		}
		if body.Priority < 1 {
			body.Priority = 1
		}

		var s Subject
		s.SubjectName = body.SubjectName
		s.ColorCode = body.ColorCode
		s.Priority = body.Priority

		err := db.QueryRowContext(r.Context(),
			`INSERT INTO subjects (user_id, subject_name, color_code, priority)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`,
			uid, s.SubjectName, s.ColorCode, s.Priority,
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}

func UpdateHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			SubjectID   int    `json:"subject_id"`
			SubjectName string `json:"subject_name"`
			ColorCode   string `json:"color_code"`
			Priority    int    `json:"priority"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.SubjectID == 0 || strings.TrimSpace(body.SubjectName) == "" {
			http.Error(w, "subject_id and subject_name required", http.StatusBadRequest)
			return
		}

		res, err := db.ExecContext(r.Context(),
			`UPDATE subjects
			 SET subject_name = $1, color_code = $2, priority = $3
			 WHERE id = $4 AND user_id = $5`,
			strings.TrimSpace(body.SubjectName), body.ColorCode, body.Priority,
			body.SubjectID, uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "subject not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		subjectID, _ := strconv.Atoi(r.URL.Query().Get("subject_id"))
		if subjectID == 0 {
			http.Error(w, "subject_id required", http.StatusBadRequest)
			return
		}

		res, err := db.ExecContext(r.Context(),
			`DELETE FROM subjects WHERE id = $1 AND user_id = $2`,
			subjectID, uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "subject not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
