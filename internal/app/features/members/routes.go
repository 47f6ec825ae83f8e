// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// MountAdminRoutes mounts membership administration under /users.
// The prefix is gated to admin and superadmin roles at the router level.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/", h.CreateUser)
	r.Get("/{id}/memberships", h.ListMemberships)
	r.Put("/{id}/memberships", h.UpsertMembership)
	r.Delete("/{id}/memberships/{companyID}", h.RemoveMembership)
}

// MountMeRoutes mounts the self-inspection endpoint, available to any
// signed-in user.
func (h *Handler) MountMeRoutes(r chi.Router) {
	r.Get("/", h.Me)
}
