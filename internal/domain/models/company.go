// internal/domain/models/company.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role modes restrict what a company's members may do with leads,
// regardless of what their membership flags say.
const (
	RoleModeUploader = "uploader" // members may submit leads, never receive
	RoleModeReceiver = "receiver" // members may receive leads, never submit
	RoleModeHybrid   = "hybrid"   // no restriction
)

// ValidRoleMode reports whether mode is one of the known role modes.
func ValidRoleMode(mode string) bool {
	switch mode {
	case RoleModeUploader, RoleModeReceiver, RoleModeHybrid:
		return true
	}
	return false
}

// Company is a tenant. Leads, screenshots, and distribution switches are
// scoped to a company; memberships bind users to it.
type Company struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Code     string             `bson:"code" json:"code"` // short unique code, used by ops tooling
	RoleMode string             `bson:"role_mode" json:"role_mode"`
	Status   string             `bson:"status" json:"status"` // active | inactive

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
