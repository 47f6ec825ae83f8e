// internal/testutil/fixtures.go
package testutil

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadrelay/leadrelay/internal/domain/models"
)

// CompanyFixture returns a distinct, valid company for insertion through
// the store. The suffix keeps unique name and code indexes happy.
func CompanyFixture(suffix string) models.Company {
	return models.Company{
		Name:     "Acme " + suffix,
		Code:     "acme-" + suffix,
		RoleMode: models.RoleModeHybrid,
		Status:   "active",
	}
}

// UserFixture returns a valid active user with the given memberships.
func UserFixture(email string, memberships ...models.Membership) models.User {
	return models.User{
		FullName:    "Test User",
		Email:       email,
		Status:      "active",
		Memberships: memberships,
	}
}

// MembershipFixture returns a hybrid-capable membership in the company.
func MembershipFixture(companyID primitive.ObjectID, role string) models.Membership {
	now := time.Now().UTC()
	return models.Membership{
		CompanyID:           companyID,
		Role:                role,
		CanUploadLeads:      true,
		CanReceiveLeads:     true,
		DistributionEnabled: true,
		DistributionWeight:  1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// LeadFixture returns a valid pending lead for the company and day.
func LeadFixture(t *testing.T, companyID, submitterID primitive.ObjectID, numberE164, workingDay string) models.Lead {
	t.Helper()
	return models.Lead{
		Number:          numberE164,
		NumberE164:      numberE164,
		WorkingDay:      workingDay,
		Status:          models.LeadPending,
		SourceCompanyID: companyID,
		SubmittedBy:     submitterID,
		Product:         "widget",
	}
}
