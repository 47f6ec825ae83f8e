// internal/app/features/leads/submit.go
package leads

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	leadstore "github.com/leadrelay/leadrelay/internal/app/store/leads"
	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/capability"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/phone"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

type submitRequest struct {
	Number          string `json:"number"`
	Product         string `json:"product,omitempty"`
	Notes           string `json:"notes,omitempty"`
	TargetCompanyID string `json:"target_company_id,omitempty"`
}

// Submit records a lead for the current working day. The phone number is
// normalized to E.164 before the uniqueness check, so formatting
// variants of the same number collide. A duplicate answers 400.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	u, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "unauthorized")
		return
	}
	companyID, err := authz.CompanyScope(r)
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	var req submitRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Number) == "" {
		httpjson.BadRequest(w, "number is required")
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	company, err := h.Companies.GetByID(ctx, companyID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "company not found")
			return
		}
		h.ErrLog.ServerError(w, r, "leads: company load failed", err)
		return
	}

	eff := capability.Resolve(u.Memberships, companyID, company.RoleMode)
	if !eff.CanUploadLeads {
		httpjson.Forbidden(w, "forbidden")
		return
	}

	normalized, err := phone.Normalize(req.Number, h.PhoneRegion)
	if err != nil {
		httpjson.BadRequest(w, "invalid phone number")
		return
	}

	lead := models.Lead{
		Number:          strings.TrimSpace(req.Number),
		NumberE164:      normalized,
		WorkingDay:      workday.Today(),
		SourceCompanyID: companyID,
		SubmittedBy:     u.ID,
		Product:         strings.TrimSpace(req.Product),
		Notes:           h.sanitizer.Sanitize(req.Notes),
	}
	if req.TargetCompanyID != "" {
		target, err := primitive.ObjectIDFromHex(req.TargetCompanyID)
		if err != nil {
			httpjson.BadRequest(w, "invalid target_company_id")
			return
		}
		lead.TargetCompanyID = &target
	}

	created, err := h.Store.Create(ctx, lead)
	if err != nil {
		if err == leadstore.ErrDuplicateLead {
			httpjson.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.ServerError(w, r, "leads: create failed", err)
		return
	}

	h.Log.Info("lead submitted",
		zap.String("lead_id", created.ID.Hex()),
		zap.String("company_id", companyID.Hex()),
		zap.String("working_day", created.WorkingDay))
	httpjson.Write(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus transitions a lead. Restricted to operators and admins of
// the company the request is scoped to.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	u, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "unauthorized")
		return
	}
	companyID, err := authz.CompanyScope(r)
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if !authz.IsCompanyOperator(u, companyID) {
		httpjson.Forbidden(w, "forbidden")
		return
	}

	leadID, err := leadIDParam(r)
	if err != nil {
		httpjson.BadRequest(w, "invalid lead id")
		return
	}

	var req statusRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Store.UpdateStatus(ctx, leadID, req.Status); err != nil {
		switch err {
		case leadstore.ErrInvalidStatus:
			httpjson.BadRequest(w, err.Error())
		case mongo.ErrNoDocuments:
			httpjson.NotFound(w, "lead not found")
		default:
			h.ErrLog.ServerError(w, r, "leads: status update failed", err)
		}
		return
	}

	lead, err := h.Store.GetByID(ctx, leadID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "leads: reload failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, lead)
}
