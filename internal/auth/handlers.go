package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	DB     *sql.DB
	Secret []byte
}

func NewHandler(db *sql.DB, secret []byte) *Handler {
	return &Handler{DB: db, Secret: secret}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// ------------------------------------------------------------------
// Registration: POST /api/auth/register
// ------------------------------------------------------------------

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		http.Error(w, "username, email and password (min 6 chars) required", http.StatusBadRequest)
		return
	}

	// check duplicate username/email
	var exists int
	err := h.DB.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2`,
		req.Username, req.Email,
	).Scan(&exists)
	if err == nil && exists > 0 {
		http.Error(w, "username or email already exists", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "hash error", http.StatusInternalServerError)
		return
	}

	var id int
	err = h.DB.QueryRowContext(r.Context(),
		`INSERT INTO users (username, email, password_hash, full_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		req.Username, req.Email, string(hash), req.FullName,
	).Scan(&id)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	token, _ := GenerateToken(h.Secret, id)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResponse{Token: token, UserID: id, Username: req.Username})
}

// ------------------------------------------------------------------
// Login: POST /api/auth/login
// ------------------------------------------------------------------

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	var (
		id   int
		hash string
	)
	err := h.DB.QueryRowContext(r.Context(),
		`SELECT id, password_hash FROM users WHERE username = $1`,
		req.Username,
	).Scan(&id, &hash)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusForbidden)
		return
	}

	token, _ := GenerateToken(h.Secret, id)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authResponse{Token: token, UserID: id, Username: req.Username})
}

// ------------------------------------------------------------------
// Current user: GET /api/auth/me
// ------------------------------------------------------------------

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var (
		username, email string
		fullName        sql.NullString
	)
	err := h.DB.QueryRowContext(r.Context(),
		`SELECT username, email, COALESCE(full_name, '') FROM users WHERE id = $1`,
		uid,
	).Scan(&username, &email, &fullName)
	if err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":        uid,
		"username":  username,
		"email":     email,
		"full_name": fullName.String,
	})
}
