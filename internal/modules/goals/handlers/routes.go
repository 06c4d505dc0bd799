package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all goal routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/goals", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleGet(w, r, chi.URLParam(r, "id"))
		})
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleUpdate(w, r, chi.URLParam(r, "id"))
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleDelete(w, r, chi.URLParam(r, "id"))
		})
		r.Post("/{id}/contribute", func(w http.ResponseWriter, r *http.Request) {
			h.HandleContribute(w, r, chi.URLParam(r, "id"))
		})
		r.Post("/{id}/withdraw", func(w http.ResponseWriter, r *http.Request) {
			h.HandleWithdraw(w, r, chi.URLParam(r, "id"))
		})
	})
}
