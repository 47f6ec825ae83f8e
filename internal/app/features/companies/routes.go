// internal/app/features/companies/routes.go
package companies

import "github.com/go-chi/chi/v5"

// MountRoutes mounts company administration. The whole prefix is gated
// to admin and superadmin roles at the router level.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/role_mode", h.SetRoleMode)
}
