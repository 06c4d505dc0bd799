// Package handlers provides HTTP handlers for account operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/domain"
	"github.com/nvasilakis/fintrack/internal/modules/accounts"
)

// Handler handles account HTTP requests
type Handler struct {
	service *accounts.Service
	log     zerolog.Logger
}

// NewHandler creates a new accounts handler
func NewHandler(service *accounts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "accounts").Logger(),
	}
}

type createAccountRequest struct {
	UserID         string      `json:"user_id"`
	Name           string      `json:"name"`
	Type           string      `json:"type"`
	InitialBalance interface{} `json:"initial_balance"`
	Currency       string      `json:"currency"`
}

type updateAccountRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Currency string `json:"currency"`
	IsActive *bool  `json:"is_active"`
}

// HandleCreate handles POST / - create a new account
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	initialBalance, err := domain.ParseAmount("initial_balance", req.InitialBalance)
	if err != nil {
		h.writeError(w, err)
		return
	}

	account, err := h.service.Create(domain.Account{
		UserID:         req.UserID,
		Name:           req.Name,
		Type:           domain.AccountType(req.Type),
		InitialBalance: initialBalance,
		Currency:       domain.Currency(req.Currency),
		IsActive:       true,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, account)
}

// HandleList handles GET / - list accounts with derived balances
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	accts, err := h.service.ListWithBalances(userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		http.Error(w, "Failed to retrieve accounts", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, accts)
}

// HandleGet handles GET /{id} - get one account with derived balance
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	account, err := h.service.GetAccountWithBalance(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, account)
}

// HandleUpdate handles PUT /{id} - update account metadata.
// The initial balance is not updatable; it is fixed at creation.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	existing, err := h.service.GetAccountWithBalance(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	updated := *existing
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.Type != "" {
		updated.Type = domain.AccountType(req.Type)
	}
	if req.Currency != "" {
		updated.Currency = domain.Currency(req.Currency)
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	if err := h.service.Update(updated); err != nil {
		h.writeError(w, err)
		return
	}

	account, err := h.service.GetAccountWithBalance(id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, account)
}

// HandleDelete handles DELETE /{id} - delete an account without transactions
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Delete(id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

// HandleArchive handles POST /{id}/archive - deactivate an account
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.Archive(id); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"archived": id})
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "account not found"})
	case domain.IsConstraintViolation(err):
		h.writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case domain.IsValidationError(err):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("Account operation failed")
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
