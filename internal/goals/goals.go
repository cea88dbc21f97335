package goals

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"study-planner-backend/internal/auth"
)

type StudyGoal struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	GoalType     string    `json:"goal_type"`
	TargetValue  float64   `json:"target_value"`
	CurrentValue float64   `json:"current_value"`
	TargetDate   *string   `json:"target_date,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func ListHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := db.QueryContext(r.Context(),
			`SELECT id, title, COALESCE(description, ''), goal_type,
					target_value, current_value, target_date, status, created_at
			 FROM study_goals
			 WHERE user_id = $1
			 ORDER BY created_at DESC`,
			uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		result := []StudyGoal{}
		for rows.Next() {
			var (
				g          StudyGoal
				targetDate sql.NullTime
			)
			if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.GoalType,
				&g.TargetValue, &g.CurrentValue, &targetDate, &g.Status, &g.CreatedAt); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			if targetDate.Valid {
				d := targetDate.Time.Format("2006-01-02")
				g.TargetDate = &d
			}
			result = append(result, g)
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
			Title       string  `json:"title"`
			Description string  `json:"description"`
			GoalType    string  `json:"goal_type"` // hours | tasks | custom
			TargetValue float64 `json:"target_value"`
			TargetDate  string  `json:"target_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" || body.TargetValue <= 0 {
			http.Error(w, "title and positive target_value required", http.StatusBadRequest)
			return
		}
		switch body.GoalType {
		case "hours", "tasks", "custom":
		case "":
			body.GoalType = "custom"
		default:
			http.Error(w, "invalid goal_type", http.StatusBadRequest)
			return
		}

		var targetDate sql.NullTime
		if body.TargetDate != "" {
			d, err := time.Parse("2006-01-02", body.TargetDate)
			if err != nil {
				http.Error(w, "invalid target_date, want YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			targetDate = sql.NullTime{Time: d, Valid: true}
		}

		g := StudyGoal{
			Title:       body.Title,
			Description: strings.TrimSpace(body.Description),
			GoalType:    body.GoalType,
			TargetValue: body.TargetValue,
			Status:      "active",
		}
		err := db.QueryRowContext(r.Context(),
			`INSERT INTO study_goals (user_id, title, description, goal_type, target_value, current_value, target_date, status)
			 VALUES ($1, $2, $3, $4, $5, 0, $6, 'active')
			 RETURNING id, created_at`,
			uid, g.Title, g.Description, g.GoalType, g.TargetValue, targetDate,
		).Scan(&g.ID, &g.CreatedAt)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if targetDate.Valid {
			d := targetDate.Time.Format("2006-01-02")
			g.TargetDate = &d
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g)
	}
}

// UpdateProgressHandler serves POST /api/goals/progress
// {"goal_id": N, "current_value": V}. Reaching the target completes the goal.
func UpdateProgressHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			GoalID       int     `json:"goal_id"`
			CurrentValue float64 `json:"current_value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.GoalID == 0 || body.CurrentValue < 0 {
			http.Error(w, "goal_id and non-negative current_value required", http.StatusBadRequest)
			return
		}

		res, err := db.ExecContext(r.Context(),
			`UPDATE study_goals
			 SET current_value = $1,
				 status = CASE WHEN $1 >= target_value THEN 'completed' ELSE status END
			 WHERE id = $2 AND user_id = $3`,
			body.CurrentValue, body.GoalID, uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "goal not found", http.StatusNotFound)
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

		goalID, _ := strconv.Atoi(r.URL.Query().Get("goal_id"))
		if goalID == 0 {
			http.Error(w, "goal_id required", http.StatusBadRequest)
			return
		}

		res, err := db.ExecContext(r.Context(),
			`DELETE FROM study_goals WHERE id = $1 AND user_id = $2`,
			goalID, uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			http.Error(w, "goal not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
