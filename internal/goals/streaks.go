package goals

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"study-planner-backend/internal/auth"
)

type StreakDay struct {
	StreakDate     string  `json:"streak_date"`
	StudyHours     float64 `json:"study_hours"`
	TasksCompleted int     `json:"tasks_completed"`
}

type StreakStats struct {
	CurrentStreak int         `json:"current_streak"`
	LongestStreak int         `json:"longest_streak"`
	Days          []StreakDay `json:"days"`
}

// CurrentStreak counts the run of consecutive study days ending today or
// yesterday. dates must be sorted descending.
func CurrentStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	first := dates[0]

	// a streak still counts if the last study day was yesterday
	switch {
	case sameDay(first, day):
	case sameDay(first, day.AddDate(0, 0, -1)):
		day = day.AddDate(0, 0, -1)
	default:
		return 0
	}

	streak := 0
	for _, d := range dates {
		if !sameDay(d, day) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak finds the longest run of consecutive days. dates must be
// sorted descending.
func LongestStreak(dates []time.Time) int {
	longest, run := 0, 0
	for i, d := range dates {
		if i > 0 && sameDay(dates[i-1].AddDate(0, 0, -1), d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StreaksHandler serves GET /api/streaks: the last 30 logged days plus
// current and longest streak.
func StreaksHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		rows, err := db.QueryContext(r.Context(),
			`SELECT streak_date, study_hours, tasks_completed
			 FROM study_streaks
			 WHERE user_id = $1
			 ORDER BY streak_date DESC
			 LIMIT 30`,
			uid,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rows.Close()

		stats := StreakStats{Days: []StreakDay{}}
		var dates []time.Time
		for rows.Next() {
			var (
				d    StreakDay
				date time.Time
			)
			if err := rows.Scan(&date, &d.StudyHours, &d.TasksCompleted); err != nil {
				http.Error(w, "scan error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			d.StreakDate = date.Format("2006-01-02")
			stats.Days = append(stats.Days, d)
			dates = append(dates, date)
		}

		stats.CurrentStreak = CurrentStreak(dates, time.Now())
		stats.LongestStreak = LongestStreak(dates)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(stats)
	}
}

// LogStreakHandler serves POST /api/streaks/log
// {"study_hours": H, "tasks_completed": N}. One row per day, upserted.
func LogStreakHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			StudyHours     float64 `json:"study_hours"`
			TasksCompleted int     `json:"tasks_completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.StudyHours < 0 || body.TasksCompleted < 0 {
			http.Error(w, "study_hours and tasks_completed must be >= 0", http.StatusBadRequest)
			return
		}

		today := time.Now().Format("2006-01-02")
		_, err := db.ExecContext(r.Context(),
			`INSERT INTO study_streaks (user_id, streak_date, study_hours, tasks_completed)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, streak_date) DO UPDATE SET
				study_hours = study_streaks.study_hours + EXCLUDED.study_hours,
				tasks_completed = study_streaks.tasks_completed + EXCLUDED.tasks_completed`,
			uid, today, body.StudyHours, body.TasksCompleted,
		)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
