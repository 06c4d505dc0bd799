// Package handlers provides HTTP handlers for transaction operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/modules/transactions"
)

// Handler handles transaction HTTP requests
type Handler struct {
	service *transactions.Service
	log     zerolog.Logger
}

// NewHandler creates a new transactions handler
func NewHandler(service *transactions.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "transactions").Logger(),
	}
}

type transactionRequest struct {
	UserID      string      `json:"user_id"`
	AccountID   string      `json:"account_id"`
	ToAccountID *string     `json:"to_account_id"`
	CategoryID  *string     `json:"category_id"`
	Amount      interface{} `json:"amount"`
	Type        string      `json:"type"`
	Date        int64       `json:"date"`
	Description string      `json:"description"`
	GoalID      *string     `json:"goal_id"`
}

// HandleCreate handles POST / - record a new transaction
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(transactions.CreateInput{
		UserID:      req.UserID,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        domain.TransactionType(req.Type),
		Date:        req.Date,
		Description: req.Description,
		GoalID:      req.GoalID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

// HandleList handles GET / - list a user's transactions, newest first
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > 10000 {
			http.Error(w, "Invalid limit. Must be 1-10000", http.StatusBadRequest)
			return
		}
		limit = l
	}

	txns, err := h.service.ListByUser(userID, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		http.Error(w, "Failed to retrieve transactions", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, txns)
}

// HandleGet handles GET /{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	txn, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, txn)
}

// HandleUpdate handles PUT /{id} - rewrite an existing transaction
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	err := h.service.Update(transactions.UpdateInput{
		ID:          id,
		AccountID:   req.AccountID,
		ToAccountID: req.ToAccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        domain.TransactionType(req.Type),
		Date:        req.Date,
		Description: req.Description,
		GoalID:      req.GoalID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated, err := h.service.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "transaction not found"})
	case domain.IsValidationError(err):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Transaction operation failed")
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
