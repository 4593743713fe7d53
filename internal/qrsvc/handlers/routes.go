package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/api", func(r chi.Router) {

		// public routes
		r.Post("/auth/signup", h.SignupHandler)
		r.Post("/auth/login", h.LoginHandler)
		r.Get("/stats/{id}", h.StatsHandler)
		r.Get("/health", h.HealthHandler)

		// webhook verifies its own signature over the raw body
		r.Post("/payment/webhook", h.WebhookHandler)

		// secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Post("/create-qr", h.CreateQrHandler)
			r.Get("/dashboard/my-dashboard", h.DashboardHandler)
			r.Post("/payment/create-checkout-session", h.CreateCheckoutHandler)

			// admin routes
			r.Group(func(r chi.Router) {
				r.Use(h.AdminOnly)

				r.Get("/admin/users", h.AdminUsersHandler)
				r.Patch("/admin/user/{id}/subscription", h.AdminSetSubscriptionHandler)
				r.Get("/admin/user/{id}/qrs", h.AdminUserQrsHandler)
				r.Patch("/admin/qr/{id}/toggle", h.AdminToggleQrHandler)
				r.Get("/admin/qr/{id}/scans", h.AdminQrScansHandler)
			})
		})
	})
}
