// internal/app/system/authz/authz.go

// Package authz reads the authenticated user out of the request context
// and answers the common capability questions handlers ask. Company scope
// comes from the X-Company-ID header (falling back to the company_id
// query parameter), mirroring the headers forwarded to the upstream
// distributor.
package authz

import (
	"errors"
	"net/http"

	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNoCompanyScope is returned when a request carries no usable company id.
var ErrNoCompanyScope = errors.New("missing or invalid company id")

// UserCtx returns the authenticated user, or ok=false when the request is
// unauthenticated.
func UserCtx(r *http.Request) (models.User, bool) {
	cu, ok := auth.CurrentUser(r)
	if !ok {
		return models.User{}, false
	}
	return cu.User, true
}

// CompanyScope extracts the company the request operates on.
func CompanyScope(r *http.Request) (primitive.ObjectID, error) {
	raw := r.Header.Get("X-Company-ID")
	if raw == "" {
		raw = r.URL.Query().Get("company_id")
	}
	if raw == "" {
		return primitive.NilObjectID, ErrNoCompanyScope
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrNoCompanyScope
	}
	return id, nil
}

// IsSuperAdmin reports whether the user is a superadmin in any company.
func IsSuperAdmin(u models.User) bool {
	return u.HasAnyRole(models.RoleSuperAdmin)
}

// IsCompanyAdmin reports whether the user administers the given company.
// Superadmins administer every company.
func IsCompanyAdmin(u models.User, companyID primitive.ObjectID) bool {
	if IsSuperAdmin(u) {
		return true
	}
	m, ok := u.MembershipFor(companyID)
	return ok && m.Role == models.RoleAdmin
}

// IsCompanyOperator reports whether the user can work leads in the given
// company: lead_operator, admin, or superadmin.
func IsCompanyOperator(u models.User, companyID primitive.ObjectID) bool {
	if IsSuperAdmin(u) {
		return true
	}
	m, ok := u.MembershipFor(companyID)
	return ok && (m.Role == models.RoleAdmin || m.Role == models.RoleLeadOperator)
}
