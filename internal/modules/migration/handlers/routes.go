package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all migration routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/migration", func(r chi.Router) {
		r.Post("/queue", h.HandleQueue)
		r.Post("/run", h.HandleMigrate)
	})
}
