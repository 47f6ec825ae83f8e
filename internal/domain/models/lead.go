// internal/domain/models/lead.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lead statuses. "approved" is the terminal success status; an older
// schema used "done" for the same state, which ParseLeadStatus still
// accepts and normalizes.
const (
	LeadPending    = "pending"
	LeadAssigned   = "assigned"
	LeadInProgress = "in_progress"
	LeadApproved   = "approved"
	LeadRejected   = "rejected"
)

// ParseLeadStatus validates a status string, normalizing the legacy
// "done" value to "approved". Returns "" when the status is unknown.
func ParseLeadStatus(s string) string {
	switch s {
	case LeadPending, LeadAssigned, LeadInProgress, LeadApproved, LeadRejected:
		return s
	case "done":
		return LeadApproved
	}
	return ""
}

// Lead is a submitted record, unique per (number_e164, working_day).
// The three company references are independent: where the lead was
// submitted, where the uploader intended it to go, and where the
// distributor actually placed it.
type Lead struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number     string             `bson:"number" json:"number"`           // as submitted
	NumberE164 string             `bson:"number_e164" json:"number_e164"` // uniqueness key with working_day
	WorkingDay string             `bson:"working_day" json:"working_day"` // YYYY-MM-DD business day
	Status     string             `bson:"lead_status" json:"lead_status"`

	SourceCompanyID   primitive.ObjectID  `bson:"source_company_id" json:"source_company_id"`
	TargetCompanyID   *primitive.ObjectID `bson:"target_company_id,omitempty" json:"target_company_id,omitempty"`
	AssignedCompanyID *primitive.ObjectID `bson:"assigned_company_id,omitempty" json:"assigned_company_id,omitempty"`
	AssignedTo        *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`

	SubmittedBy primitive.ObjectID `bson:"submitted_by" json:"submitted_by"`
	Product     string             `bson:"product,omitempty" json:"product,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"` // sanitized before storage

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
