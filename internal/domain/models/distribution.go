// internal/domain/models/distribution.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DistributionSwitch toggles automatic assignment for one working day.
// One document per (company_id, working_day); a document without a
// company_id is the global switch for that day.
type DistributionSwitch struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CompanyID  *primitive.ObjectID `bson:"company_id,omitempty" json:"company_id,omitempty"`
	WorkingDay string              `bson:"working_day" json:"working_day"`
	Enabled    bool                `bson:"enabled" json:"enabled"`
	UpdatedBy  primitive.ObjectID  `bson:"updated_by,omitempty" json:"updated_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
