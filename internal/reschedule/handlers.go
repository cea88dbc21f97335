package reschedule

import (
	"encoding/json"
	"net/http"
	"time"

	"study-planner-backend/internal/analytics"
	"study-planner-backend/internal/auth"
)

// AutoHandler serves POST /api/reschedule/auto: the combined A/B/C pass.
func AutoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result := svc.AutoRescheduleAll(r.Context(), uid, time.Now())

		moved := len(result.OverdueRescheduled) + len(result.IncompleteRescheduled) + len(result.WorkloadBalanced)
		if moved > 0 {
			env := analytics.FromRequest(r)
			env.UserID = uid
			_ = analytics.Log(r.Context(), svc.Store.DB, env, analytics.EventTaskRescheduled, map[string]any{
				"moved":   moved,
				"overdue": len(result.OverdueRescheduled),
			}, analytics.EventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// BalanceHandler serves POST /api/reschedule/balance
// {"days_ahead": N, "max_hours_per_day": H}
func BalanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		body := struct {
			DaysAhead      int     `json:"days_ahead"`
			MaxHoursPerDay float64 `json:"max_hours_per_day"`
		}{
			DaysAhead:      DefaultBalanceDays,
			MaxHoursPerDay: DefaultMaxHoursPerDay,
		}
		// empty body keeps the defaults
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.DaysAhead < 1 || body.MaxHoursPerDay <= 0 {
			http.Error(w, "days_ahead and max_hours_per_day must be positive", http.StatusBadRequest)
			return
		}

		changes, err := svc.BalanceWorkload(r.Context(), uid, body.DaysAhead, body.MaxHoursPerDay, time.Now())
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"workload_balanced": changes})
	}
}

// RolloverHandler serves POST /api/reschedule/rollover {"target_date": "YYYY-MM-DD"}.
// Defaults to yesterday, the end-of-day cleanup case.
func RolloverHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TargetDate string `json:"target_date"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		target := dateOnly(time.Now()).AddDate(0, 0, -1)
		if body.TargetDate != "" {
			d, err := time.Parse(dateLayout, body.TargetDate)
			if err != nil {
				http.Error(w, "invalid target_date, want YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			target = d
		}

		changes, err := svc.RolloverIncomplete(r.Context(), uid, target)
		if err != nil {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"incomplete_rescheduled": changes})
	}
}
