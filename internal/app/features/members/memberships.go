// internal/app/features/members/memberships.go
package members

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	userstore "github.com/leadrelay/leadrelay/internal/app/store/users"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

type createUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// CreateUser registers an account. Memberships are attached afterwards
// via PUT /users/{id}/memberships.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if req.FullName == "" || req.Email == "" {
		httpjson.BadRequest(w, "full_name and email are required")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		if err == userstore.ErrDuplicateUser {
			httpjson.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.ServerError(w, r, "members: user create failed", err)
		return
	}

	h.Log.Info("user created", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, u)
}

// ListMemberships returns a user's memberships.
func (h *Handler) ListMemberships(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "user not found")
			return
		}
		h.ErrLog.ServerError(w, r, "members: user load failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"memberships": u.Memberships})
}

type membershipRequest struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`

	CanUploadLeads      bool `json:"can_upload_leads"`
	CanReceiveLeads     bool `json:"can_receive_leads"`
	CanViewAllLeads     bool `json:"can_view_all_leads"`
	DistributionEnabled bool `json:"distribution_enabled"`

	DistributionWeight int `json:"distribution_weight,omitempty"`
	DailyCap           int `json:"daily_cap,omitempty"`
	MaxConcurrentLeads int `json:"max_concurrent_leads,omitempty"`
}

// UpsertMembership sets the user's role and capability flags in one
// company, replacing any existing membership there. The flags stored
// here are the raw grants; what a request may actually do is the AND of
// these with the company's role mode, resolved per request.
func (h *Handler) UpsertMembership(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid user id")
		return
	}

	var req membershipRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	companyID, err := primitive.ObjectIDFromHex(req.CompanyID)
	if err != nil {
		httpjson.BadRequest(w, "invalid company_id")
		return
	}
	if !models.ValidRole(req.Role) {
		httpjson.BadRequest(w, "invalid role")
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	// The company must exist before anyone gets a membership in it.
	if _, err := h.Companies.GetByID(ctx, companyID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "company not found")
			return
		}
		h.ErrLog.ServerError(w, r, "members: company load failed", err)
		return
	}

	m := models.Membership{
		CompanyID:           companyID,
		Role:                req.Role,
		CanUploadLeads:      req.CanUploadLeads,
		CanReceiveLeads:     req.CanReceiveLeads,
		CanViewAllLeads:     req.CanViewAllLeads,
		DistributionEnabled: req.DistributionEnabled,
		DistributionWeight:  req.DistributionWeight,
		DailyCap:            req.DailyCap,
		MaxConcurrentLeads:  req.MaxConcurrentLeads,
	}
	if err := h.Users.UpsertMembership(ctx, userID, m); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "user not found")
			return
		}
		h.ErrLog.ServerError(w, r, "members: membership upsert failed", err)
		return
	}

	h.Log.Info("membership upserted",
		zap.String("user_id", userID.Hex()),
		zap.String("company_id", companyID.Hex()),
		zap.String("role", req.Role))
	httpjson.Write(w, http.StatusOK, m)
}

// RemoveMembership detaches the user from the company.
func (h *Handler) RemoveMembership(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid user id")
		return
	}
	companyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "companyID"))
	if err != nil {
		httpjson.BadRequest(w, "invalid company id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Users.RemoveMembership(ctx, userID, companyID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "user not found")
			return
		}
		h.ErrLog.ServerError(w, r, "members: membership removal failed", err)
		return
	}

	h.Log.Info("membership removed",
		zap.String("user_id", userID.Hex()),
		zap.String("company_id", companyID.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
