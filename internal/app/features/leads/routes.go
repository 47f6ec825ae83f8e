// internal/app/features/leads/routes.go
package leads

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the lead API. Everything here requires a session;
// per-company capability checks happen inside the handlers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Submit)
	r.Get("/", h.List)
	r.Get("/counts", h.Counts)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/assign", h.ProxyAssign)
	r.Post("/redistribute", h.ProxyRedistribute)
}
