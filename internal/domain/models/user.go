// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles within a company.
const (
	RoleSuperAdmin        = "superadmin"
	RoleAdmin             = "admin"
	RoleLeadOperator      = "lead_operator"
	RoleFBSubmitter       = "fb_submitter"
	RoleFBAnalyticsViewer = "fb_analytics_viewer"
)

// ValidRole reports whether role is one of the known membership roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleLeadOperator, RoleFBSubmitter, RoleFBAnalyticsViewer:
		return true
	}
	return false
}

// Membership is a user's per-company role, capability flags, and the
// weighting fields consumed by the upstream distributor. Exactly one
// membership per (user, company); stored embedded on the user document.
type Membership struct {
	CompanyID primitive.ObjectID `bson:"company_id" json:"company_id"`
	Role      string             `bson:"role" json:"role"`

	CanUploadLeads      bool `bson:"can_upload_leads" json:"can_upload_leads"`
	CanReceiveLeads     bool `bson:"can_receive_leads" json:"can_receive_leads"`
	CanViewAllLeads     bool `bson:"can_view_all_leads" json:"can_view_all_leads"`
	DistributionEnabled bool `bson:"distribution_enabled" json:"distribution_enabled"`

	// Distribution weighting, read by the external distributor.
	DistributionWeight int        `bson:"distribution_weight" json:"distribution_weight"`
	DailyCap           int        `bson:"daily_cap" json:"daily_cap"`
	MaxConcurrentLeads int        `bson:"max_concurrent_leads" json:"max_concurrent_leads"`
	LastReceivedAt     *time.Time `bson:"last_received_at,omitempty" json:"last_received_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User carries profile fields, the ordered membership list, and the
// session epoch. The epoch is monotonic: signing in bumps it, and cookies
// minted under an older epoch stop validating. This replaces a single
// mutable session token and its last-writer-wins race.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	Status       string             `bson:"status" json:"status"` // active | disabled
	SessionEpoch int64              `bson:"session_epoch" json:"-"`

	Memberships []Membership `bson:"memberships" json:"memberships"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// MembershipFor returns the user's membership in the given company.
func (u User) MembershipFor(companyID primitive.ObjectID) (Membership, bool) {
	for _, m := range u.Memberships {
		if m.CompanyID == companyID {
			return m, true
		}
	}
	return Membership{}, false
}

// HasAnyRole reports whether any membership carries one of the given roles.
func (u User) HasAnyRole(roles ...string) bool {
	for _, m := range u.Memberships {
		for _, want := range roles {
			if m.Role == want {
				return true
			}
		}
	}
	return false
}
