// Package handlers provides HTTP handlers for savings goal operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/modules/goals"
)

// Handler handles goal HTTP requests
type Handler struct {
	service *goals.Service
	log     zerolog.Logger
}

// NewHandler creates a new goals handler
func NewHandler(service *goals.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "goals").Logger(),
	}
}

type createGoalRequest struct {
	UserID       string      `json:"user_id"`
	Name         string      `json:"name"`
	TargetAmount interface{} `json:"target_amount"`
}

type updateGoalRequest struct {
	Name         string      `json:"name"`
	TargetAmount interface{} `json:"target_amount"`
	Status       string      `json:"status"`
}

type goalMovementRequest struct {
	AccountID string      `json:"account_id"`
	Amount    interface{} `json:"amount"`
}

// HandleCreate handles POST / - create a new goal
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	targetAmount, err := domain.ParseAmount("target_amount", req.TargetAmount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	goal, err := h.service.Create(domain.Goal{
		UserID:       req.UserID,
		Name:         req.Name,
		TargetAmount: targetAmount,
		Status:       domain.GoalStatusActive,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, goal)
}

// HandleList handles GET / - list a user's goals
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	list, err := h.service.ListByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list goals")
		http.Error(w, "Failed to retrieve goals", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	goal, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, goal)
}

// HandleUpdate handles PUT /{id} - update goal metadata.
// The current amount is only changed through contribute/withdraw.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req updateGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	existing, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated := *existing
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.TargetAmount != nil {
		targetAmount, err := domain.ParseAmount("target_amount", req.TargetAmount)
		if err != nil {
			h.writeError(w, err)
			return
		}
		updated.TargetAmount = targetAmount
	}
	if req.Status != "" {
		updated.Status = domain.GoalStatus(req.Status)
	}

	if err := h.service.Update(updated); err != nil {
		h.writeError(w, err)
		return
	}

	goal, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, goal)
}

// HandleDelete handles DELETE /{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// HandleContribute handles POST /{id}/contribute - move money into a goal
func (h *Handler) HandleContribute(w http.ResponseWriter, r *http.Request, id string) {
	var req goalMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	goal, err := h.service.Contribute(id, req.AccountID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, goal)
}

// HandleWithdraw handles POST /{id}/withdraw - move money out of a goal
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request, id string) {
	var req goalMovementRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	goal, err := h.service.Withdraw(id, req.AccountID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, goal)
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
	case domain.IsConstraintViolation(err):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case domain.IsValidationError(err):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Goal operation failed")
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

// decodeJSON decodes a request body, preserving numeric precision so
// amounts arrive as json.Number rather than float64
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}
