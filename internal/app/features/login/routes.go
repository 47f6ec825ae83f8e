// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the sign-in flow. All routes are reachable without
// a session; Logout is mounted separately behind the session gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/magic-link", h.RequestMagicLink)
	r.Get("/consume", h.Consume)
}
