package ai

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"study-planner-backend/internal/auth"
	"study-planner-backend/internal/tasks"
)

// ChatHandler serves POST /api/agent/chat {"message": "..."}.
// The student's current tasks are attached as context.
func ChatHandler(client *Client, store *tasks.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if !client.Enabled() {
			http.Error(w, "agent not configured", http.StatusServiceUnavailable)
			return
		}

		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.Message = strings.TrimSpace(body.Message)
		if body.Message == "" {
			http.Error(w, "message is required", http.StatusBadRequest)
			return
		}

		userTasks, err := store.GetByUser(r.Context(), uid, "", 20)
		if err != nil {
			log.Printf("[WARN] agent: context fetch failed for user %d: %v", uid, err)
			userTasks = nil
		}

		reply, err := client.Chat(r.Context(), SystemPrompt, BuildUserContext(userTasks), body.Message)
		if err != nil {
			log.Printf("[WARN] agent: chat failed for user %d: %v", uid, err)
			http.Error(w, "agent error", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": reply})
	}
}
