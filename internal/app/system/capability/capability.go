// internal/app/system/capability/capability.go

// Package capability computes the effective permission set for a session:
// each raw membership flag intersected with what the company's role mode
// allows. A company in uploader mode never grants can_receive_leads, a
// receiver-mode company never grants can_upload_leads, hybrid applies no
// restriction.
//
// An unknown or empty role mode grants nothing. The original system
// defaulted a missing company to hybrid, which silently widened
// permissions whenever a lookup failed; here that fails closed.
package capability

import (
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Effective is the capability record for one (user, company) pair.
// Role is "" when the user has no membership in the company.
type Effective struct {
	Role                string `json:"role"`
	CanUploadLeads      bool   `json:"can_upload_leads"`
	CanReceiveLeads     bool   `json:"can_receive_leads"`
	CanViewAllLeads     bool   `json:"can_view_all_leads"`
	DistributionEnabled bool   `json:"distribution_enabled"`
}

// AllowsUpload reports whether the role mode permits lead submission.
func AllowsUpload(mode string) bool {
	return mode == models.RoleModeUploader || mode == models.RoleModeHybrid
}

// AllowsReceive reports whether the role mode permits lead assignment.
func AllowsReceive(mode string) bool {
	return mode == models.RoleModeReceiver || mode == models.RoleModeHybrid
}

// Resolve intersects the user's membership flags for companyID with the
// company's role-mode allowance. The zero Effective is returned when the
// user has no membership in the company, or when mode is unknown.
func Resolve(memberships []models.Membership, companyID primitive.ObjectID, mode string) Effective {
	var m models.Membership
	found := false
	for _, cand := range memberships {
		if cand.CompanyID == companyID {
			m = cand
			found = true
			break
		}
	}
	if !found || !models.ValidRoleMode(mode) {
		return Effective{}
	}

	return Effective{
		Role:                m.Role,
		CanUploadLeads:      m.CanUploadLeads && AllowsUpload(mode),
		CanReceiveLeads:     m.CanReceiveLeads && AllowsReceive(mode),
		CanViewAllLeads:     m.CanViewAllLeads || m.Role == models.RoleAdmin || m.Role == models.RoleSuperAdmin,
		DistributionEnabled: m.DistributionEnabled && AllowsReceive(mode),
	}
}

// ResolveForUser is a convenience wrapper over the user's embedded
// membership list.
func ResolveForUser(u models.User, companyID primitive.ObjectID, mode string) Effective {
	return Resolve(u.Memberships, companyID, mode)
}
