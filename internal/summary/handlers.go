package summary

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"study-planner-backend/internal/auth"
)

// WeeklyHandler serves GET/POST /api/summary/weekly?week_start=
// POST regenerates; GET regenerates too when no stored row exists yet.
func WeeklyHandler(g *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		weekStart := WeekStartOf(time.Now())
		if raw := r.URL.Query().Get("week_start"); raw != "" {
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				http.Error(w, "invalid week_start, want YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			weekStart = WeekStartOf(d)
		}

		s, err := g.Generate(r.Context(), uid, weekStart)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s)
	}
}

// ComparisonHandler serves GET /api/summary/comparison?weeks_back=
func ComparisonHandler(g *Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		weeksBack, err := strconv.Atoi(r.URL.Query().Get("weeks_back"))
		if err != nil || weeksBack < 1 {
			weeksBack = 4
		}

		summaries, err := g.Recent(r.Context(), uid, weeksBack)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Compare(summaries))
	}
}
