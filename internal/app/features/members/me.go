// internal/app/features/members/me.go
package members

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/capability"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
)

type meResponse struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Memberships any    `json:"memberships"`

	// Effective is present when the request carries a company scope: the
	// membership grants ANDed with that company's role mode.
	Effective *capability.Effective `json:"effective,omitempty"`
}

// Me returns the signed-in user's profile and, when a company scope is
// supplied, the capabilities that would apply to requests in that scope.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "unauthorized")
		return
	}

	resp := meResponse{
		ID:          u.ID.Hex(),
		FullName:    u.FullName,
		Email:       u.Email,
		Memberships: u.Memberships,
	}

	if companyID, err := authz.CompanyScope(r); err == nil {
		ctx, cancel := timeouts.WithShort(r.Context())
		defer cancel()

		company, err := h.Companies.GetByID(ctx, companyID)
		if err != nil && err != mongo.ErrNoDocuments {
			h.ErrLog.ServerError(w, r, "me: company load failed", err)
			return
		}
		// Unknown company resolves to zero capabilities, same as an
		// unknown role mode.
		eff := capability.Resolve(u.Memberships, companyID, company.RoleMode)
		resp.Effective = &eff
	}

	httpjson.Write(w, http.StatusOK, resp)
}
