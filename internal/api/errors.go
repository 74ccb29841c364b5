package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joestump/animeshelf/internal/account"
	"github.com/joestump/animeshelf/internal/catalog"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeDomainError maps a data-layer sentinel to its status and code.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "validation")
	case errors.Is(err, account.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already registered", "duplicate_email")
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password", "invalid_credentials")
	case errors.Is(err, account.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "not logged in", "unauthorized")
	case errors.Is(err, catalog.ErrFetchFailed):
		writeError(w, http.StatusBadGateway, err.Error(), "fetch_failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
	}
}
