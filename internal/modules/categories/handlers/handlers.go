// Package handlers provides HTTP handlers for category operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/modules/categories"
)

// Handler handles category HTTP requests
type Handler struct {
	repo *categories.Repository
	log  zerolog.Logger
}

// NewHandler creates a new categories handler
func NewHandler(repo *categories.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "categories").Logger(),
	}
}

type categoryRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Type   string `json:"type"`
}

// HandleCreate handles POST / - create a user-defined category
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	userID := req.UserID
	category, err := h.repo.Create(domain.Category{
		UserID: &userID,
		Name:   req.Name,
		Icon:   req.Icon,
		Type:   req.Type,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, category)
}

// HandleList handles GET / - list defaults plus the user's own categories
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	list, err := h.repo.ListForUser(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list categories")
		http.Error(w, "Failed to retrieve categories", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	category, err := h.repo.GetByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, category)
}

// HandleUpdate handles PUT /{id} - update a user-defined category
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	existing, err := h.repo.GetByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated := *existing
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.Icon != "" {
		updated.Icon = req.Icon
	}
	if req.Type != "" {
		updated.Type = req.Type
	}

	if err := h.repo.Update(updated); err != nil {
		h.writeError(w, err)
		return
	}

	category, err := h.repo.GetByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, category)
}

// HandleDelete handles DELETE /{id} - delete a user-defined category
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
	case domain.IsConstraintViolation(err):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case domain.IsValidationError(err):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Category operation failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
