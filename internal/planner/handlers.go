package planner

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"study-planner-backend/internal/analytics"
	"study-planner-backend/internal/auth"
	"study-planner-backend/internal/tasks"
)

// Defaults for caller-supplied scheduling knobs.
const (
	DefaultHoursPerDay = 4.0
	DefaultDaysAhead   = 7
)

// ----------------------
//   PLANNER ENDPOINTS
// ----------------------

// ScheduleHandler serves GET /api/planner/schedule?hours_per_day=&days_ahead=
func ScheduleHandler(store *tasks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		hoursPerDay := queryFloat(r, "hours_per_day", DefaultHoursPerDay)
		daysAhead := queryInt(r, "days_ahead", DefaultDaysAhead)
		if hoursPerDay <= 0 || daysAhead < 1 {
			http.Error(w, "hours_per_day and days_ahead must be positive", http.StatusBadRequest)
			return
		}

		pending, err := store.GetByUser(r.Context(), uid, tasks.StatusPending, 0)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		now := time.Now()
		sched := SuggestSchedule(pending, hoursPerDay, daysAhead, now)
		for _, e := range sched.Unscheduled {
			log.Printf("[WARN] planner: task %d (%q) does not fit in the %d-day window", e.TaskID, e.Title, daysAhead)
		}

		topTier := "normal"
		if ranked := rank(pending, now); len(ranked) > 0 {
			topTier = analytics.TierFromScore(ranked[0].score)
		}
		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), store.DB, env, analytics.EventScheduleViewed, map[string]any{
			"days_ahead":    daysAhead,
			"hours_per_day": hoursPerDay,
			"pending":       len(pending),
			"unscheduled":   len(sched.Unscheduled),
			"top_tier":      topTier,
		}, analytics.EventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sched)
	}
}

// WorkloadHandler serves GET /api/planner/workload?days_ahead=
func WorkloadHandler(store *tasks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		daysAhead := queryInt(r, "days_ahead", DefaultDaysAhead)
		if daysAhead < 1 {
			http.Error(w, "days_ahead must be positive", http.StatusBadRequest)
			return
		}

		start := dateOnly(time.Now())
		end := start.AddDate(0, 0, daysAhead)
		inRange, err := store.GetByDateRange(r.Context(), uid, start, end)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AnalyzeWorkload(inRange))
	}
}

// RecommendationsHandler serves GET /api/planner/recommendations?date=
func RecommendationsHandler(store *tasks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		now := time.Now()
		targetDate := dateOnly(now)
		if raw := r.URL.Query().Get("date"); raw != "" {
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			targetDate = d
		}

		scheduled, err := store.GetByDateRange(r.Context(), uid, targetDate, targetDate)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		pending, err := store.GetByUser(r.Context(), uid, tasks.StatusPending, 10)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		overdue, err := store.GetOverdue(r.Context(), uid, now)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DailyRecommendations(scheduled, pending, overdue, targetDate, now))
	}
}

// AllocateHandler serves POST /api/planner/allocate {"total_hours": N}
func AllocateHandler(store *tasks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TotalHours float64 `json:"total_hours"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TotalHours <= 0 {
			http.Error(w, "total_hours must be positive", http.StatusBadRequest)
			return
		}

		pending, err := store.GetByUser(r.Context(), uid, tasks.StatusPending, 0)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		allocation := AllocateStudyTime(pending, body.TotalHours, time.Now())
		if allocation == nil {
			allocation = []Allocation{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"allocation": allocation})
	}
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return fallback
	}
	return v
}
