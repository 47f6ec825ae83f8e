// internal/app/features/screenshots/routes.go
package screenshots

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the screenshot API. Everything here requires a
// session; per-company checks happen inside the handlers.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Upload)
	r.Get("/", h.List)
	r.Post("/{id}/review", h.Review)
}
