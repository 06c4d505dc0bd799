// Package handlers provides HTTP handlers for ownership migration.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/nvasilakis/fintrack/internal/modules/migration"
)

// Handler handles migration HTTP requests
type Handler struct {
	service *migration.Service
	log     zerolog.Logger
}

// NewHandler creates a new migration handler
func NewHandler(service *migration.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "migration").Logger(),
	}
}

type queueRequest struct {
	GuestUserID string `json:"guest_user_id"`
}

type migrateRequest struct {
	GuestUserID string `json:"guest_user_id"`
	UserID      string `json:"user_id"`
}

// HandleQueue handles POST /queue - mark a guest identity for migration
func (h *Handler) HandleQueue(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.service.QueueGuestMigration(req.GuestUserID); err != nil {
		h.log.Error().Err(err).Msg("Failed to queue guest migration")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"queued":        true,
		"guest_user_id": req.GuestUserID,
	})
}

// HandleMigrate handles POST /run - migrate guest data to a signed-in user.
// The outcome is always a 200 with a result body; failure is reported in
// the success flag, not the status code.
func (h *Handler) HandleMigrate(w http.ResponseWriter, r *http.Request) {
	var req migrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	result := h.service.MigrateGuestDataToUser(r.Context(), req.GuestUserID, req.UserID)
	h.writeJSON(w, http.StatusOK, result)
}

// writeJSON writes a JSON response with the given status code
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
