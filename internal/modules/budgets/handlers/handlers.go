// Package handlers provides HTTP handlers for budget operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/modules/budgets"
)

// Handler handles budget HTTP requests
type Handler struct {
	repo *budgets.Repository
	log  zerolog.Logger
}

// NewHandler creates a new budgets handler
func NewHandler(repo *budgets.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "budgets").Logger(),
	}
}

type budgetRequest struct {
	UserID      string      `json:"user_id"`
	Name        string      `json:"name"`
	Amount      interface{} `json:"amount"`
	CategoryIDs []string    `json:"category_ids"`
	Period      string      `json:"period"`
}

// HandleCreate handles POST / - create a new budget
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	amount, err := domain.ParseAmount("amount", req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	budget, err := h.repo.Create(domain.Budget{
		UserID:      req.UserID,
		Name:        req.Name,
		Amount:      amount,
		CategoryIDs: req.CategoryIDs,
		Period:      domain.BudgetPeriod(req.Period),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, budget)
}

// HandleList handles GET / - list a user's budgets
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	list, err := h.repo.ListByUser(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list budgets")
		http.Error(w, "Failed to retrieve budgets", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	budget, err := h.repo.GetByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, budget)
}

// HandleUpdate handles PUT /{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
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
	if req.Amount != nil {
		amount, err := domain.ParseAmount("amount", req.Amount)
		if err != nil {
			h.writeError(w, err)
			return
		}
		updated.Amount = amount
	}
	if req.CategoryIDs != nil {
		updated.CategoryIDs = req.CategoryIDs
	}
	if req.Period != "" {
		updated.Period = domain.BudgetPeriod(req.Period)
	}

	if err := h.repo.Update(updated); err != nil {
		h.writeError(w, err)
		return
	}

	budget, err := h.repo.GetByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, budget)
}

// HandleDelete handles DELETE /{id}
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
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "budget not found"})
	case domain.IsValidationError(err):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Budget operation failed")
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
