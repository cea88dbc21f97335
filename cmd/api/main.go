package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"study-planner-backend/internal/ai"
	"study-planner-backend/internal/analytics"
	"study-planner-backend/internal/auth"
	"study-planner-backend/internal/config"
	"study-planner-backend/internal/db"
	"study-planner-backend/internal/goals"
	"study-planner-backend/internal/notifications"
	"study-planner-backend/internal/planner"
	"study-planner-backend/internal/progress"
	"study-planner-backend/internal/reschedule"
	"study-planner-backend/internal/subjects"
	"study-planner-backend/internal/summary"
	"study-planner-backend/internal/tasks"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DBDriver, cfg.ConnString())
	if err != nil {
		log.Fatal("failed to connect DB: ", err)
	}
	defer database.Close()

	log.Printf("connected to %s", cfg.DBDriver)

	secret := []byte(cfg.JWTSecret)
	authMW := auth.New(secret)
	authHandler := auth.NewHandler(database, secret)

	taskStore := tasks.NewStore(database)
	rescheduler := reschedule.NewService(taskStore)
	tracker := progress.NewTracker(database, taskStore)
	summaries := summary.NewGenerator(database, taskStore)
	agent := ai.New(cfg.OpenAIKey, cfg.OpenAIModel)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("/api/auth/register", postOnly(authHandler.Register))
	mux.HandleFunc("/api/auth/login", postOnly(authHandler.Login))
	mux.HandleFunc("/api/auth/me", authMW.Wrap(authHandler.Me))

	// ----- TASKS -----
	mux.HandleFunc("/api/tasks", authMW.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			tasks.ListHandler(taskStore)(w, r)
		case http.MethodPost:
			tasks.CreateHandler(taskStore)(w, r)
		case http.MethodPut:
			tasks.UpdateHandler(taskStore)(w, r)
		case http.MethodDelete:
			tasks.DeleteHandler(taskStore)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/tasks/status", authMW.Wrap(postOnly(tasks.SetStatusHandler(taskStore))))
	mux.HandleFunc("/api/tasks/overdue", authMW.Wrap(getOnly(tasks.OverdueHandler(taskStore))))
	mux.HandleFunc("/api/tasks/analytics", authMW.Wrap(getOnly(progress.AnalyticsHandler(tracker))))

	// ----- PLANNER -----
	mux.HandleFunc("/api/planner/schedule", authMW.Wrap(getOnly(planner.ScheduleHandler(taskStore))))
	mux.HandleFunc("/api/planner/workload", authMW.Wrap(getOnly(planner.WorkloadHandler(taskStore))))
	mux.HandleFunc("/api/planner/recommendations", authMW.Wrap(getOnly(planner.RecommendationsHandler(taskStore))))
	mux.HandleFunc("/api/planner/allocate", authMW.Wrap(postOnly(planner.AllocateHandler(taskStore))))

	// ----- RESCHEDULER -----
	mux.HandleFunc("/api/reschedule/auto", authMW.Wrap(postOnly(reschedule.AutoHandler(rescheduler))))
	mux.HandleFunc("/api/reschedule/balance", authMW.Wrap(postOnly(reschedule.BalanceHandler(rescheduler))))
	mux.HandleFunc("/api/reschedule/rollover", authMW.Wrap(postOnly(reschedule.RolloverHandler(rescheduler))))

	// ----- PROGRESS / SESSIONS -----
	mux.HandleFunc("/api/progress", authMW.Wrap(postOnly(progress.UpdateHandler(tracker))))
	mux.HandleFunc("/api/sessions", authMW.Wrap(postOnly(progress.SessionHandler(tracker))))

	// ----- SUMMARIES -----
	mux.HandleFunc("/api/summary/weekly", authMW.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodPost:
			summary.WeeklyHandler(summaries)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/summary/comparison", authMW.Wrap(getOnly(summary.ComparisonHandler(summaries))))

	// ----- SUBJECTS -----
	mux.HandleFunc("/api/subjects", authMW.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			subjects.ListHandler(database)(w, r)
		case http.MethodPost:
			subjects.CreateHandler(database)(w, r)
		case http.MethodPut:
			subjects.UpdateHandler(database)(w, r)
		case http.MethodDelete:
			subjects.DeleteHandler(database)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// ----- GOALS & STREAKS -----
	mux.HandleFunc("/api/goals", authMW.Wrap(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			goals.ListHandler(database)(w, r)
		case http.MethodPost:
			goals.CreateHandler(database)(w, r)
		case http.MethodDelete:
			goals.DeleteHandler(database)(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/goals/progress", authMW.Wrap(postOnly(goals.UpdateProgressHandler(database))))
	mux.HandleFunc("/api/streaks", authMW.Wrap(getOnly(goals.StreaksHandler(database))))
	mux.HandleFunc("/api/streaks/log", authMW.Wrap(postOnly(goals.LogStreakHandler(database))))

	// ----- NOTIFICATIONS -----
	mux.HandleFunc("/api/notifications", authMW.Wrap(getOnly(notifications.ListHandler(database))))
	mux.HandleFunc("/api/notifications/read", authMW.Wrap(postOnly(notifications.MarkReadHandler(database))))

	// ----- ANALYTICS -----
	mux.HandleFunc("/api/analytics/overview", authMW.Wrap(getOnly(analytics.OverviewHandler(database))))

	// ----- AGENT -----
	mux.HandleFunc("/api/agent/chat", authMW.Wrap(postOnly(ai.ChatHandler(agent, taskStore))))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Platform", "X-App-Version", "X-Session-Id"},
		AllowCredentials: true,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("API server is running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, c.Handler(mux)))
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return allowMethod(http.MethodGet, next)
}

func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return allowMethod(http.MethodPost, next)
}

func allowMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}
