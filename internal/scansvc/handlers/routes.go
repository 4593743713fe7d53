package handlers

import (
	"github.com/go-chi/chi"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Get("/scan/{id}", h.ScanHandler)
	r.Get("/health", h.HealthHandler)
}
