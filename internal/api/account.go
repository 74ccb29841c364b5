package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/animeshelf/internal/account"
	"github.com/joestump/animeshelf/internal/app"
)

type accountHandler struct {
	accounts *account.Store
}

func registerAccountRoutes(r chi.Router, a *app.App) {
	h := &accountHandler{accounts: a.Accounts}
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/me", h.Me)
	r.Patch("/me", h.UpdateMe)
}

// Register creates a user without logging in.
// POST /auth/register
func (h *accountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	u, err := h.accounts.Register(r.Context(), account.Candidate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(account.Session(u)))
}

// Login stores the session for the matching user.
// POST /auth/login
func (h *accountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	sess, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(sess))
}

// Logout clears the session.
// POST /auth/logout
func (h *accountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the logged-in user.
// GET /me
func (h *accountHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := h.accounts.CurrentUser(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "not logged in", "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*sess))
}

// UpdateMe edits the logged-in user's profile.
// PATCH /me
func (h *accountHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	sess, err := h.accounts.UpdateProfile(r.Context(), account.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(sess))
}
