// internal/domain/models/screenshot.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Screenshot is a proof-of-work artifact tied to a lead, a product, an
// uploader, and a working day. Reviewers flip the reviewed flag; the
// reviewer audit fields record who and when.
type Screenshot struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeadID     primitive.ObjectID `bson:"lead_id" json:"lead_id"`
	CompanyID  primitive.ObjectID `bson:"company_id" json:"company_id"`
	UploaderID primitive.ObjectID `bson:"uploader_id" json:"uploader_id"`
	Product    string             `bson:"product" json:"product"`
	WorkingDay string             `bson:"working_day" json:"working_day"`
	FileURL    string             `bson:"file_url" json:"file_url"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"` // sanitized before storage

	Reviewed   bool                `bson:"reviewed" json:"reviewed"`
	ReviewedBy *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
