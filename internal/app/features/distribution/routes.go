// internal/app/features/distribution/routes.go
package distribution

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the distribution API. Everything here requires a
// session; writes are restricted to admins inside the handlers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/switch", h.GetSwitch)
	r.Put("/switch", h.SetSwitch)
	r.Post("/run", h.ProxyRun)
}
