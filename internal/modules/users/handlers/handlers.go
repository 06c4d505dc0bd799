// Package handlers provides HTTP handlers for user identities.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/modules/users"
)

// Handler handles user HTTP requests
type Handler struct {
	repo *users.Repository
	log  zerolog.Logger
}

// NewHandler creates a new users handler
func NewHandler(repo *users.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "users").Logger(),
	}
}

type createUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsGuest bool   `json:"is_guest"`
}

// HandleCreate handles POST / - create a user or guest identity
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	user, err := h.repo.Create(domain.User{
		Name:    req.Name,
		Email:   req.Email,
		IsGuest: req.IsGuest,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create user")
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, user)
}

// HandleGet handles GET /{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
			return
		}
		h.log.Error().Err(err).Msg("Failed to get user")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
