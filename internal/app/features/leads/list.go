// internal/app/features/leads/list.go
package leads

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"

	leadstore "github.com/leadrelay/leadrelay/internal/app/store/leads"
	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/capability"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

// dayParam resolves ?working_day=, defaulting to the current working day.
func dayParam(r *http.Request) (string, bool) {
	day := query.Get(r, "working_day")
	if day == "" {
		return workday.Today(), true
	}
	return day, workday.Valid(day)
}

// List returns the visible leads for a working day. Users with the
// view-all capability see the whole company; everyone else sees only
// leads they submitted or were assigned.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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
	day, valid := dayParam(r)
	if !valid {
		httpjson.BadRequest(w, "invalid working_day")
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
	if eff.Role == "" {
		httpjson.Forbidden(w, "forbidden")
		return
	}

	var leads []models.Lead
	if eff.CanViewAllLeads {
		leads, err = h.Store.ListForCompany(ctx, companyID, day, query.Get(r, "status"))
		if err == leadstore.ErrInvalidStatus {
			httpjson.BadRequest(w, err.Error())
			return
		}
	} else {
		leads, err = h.Store.ListForUser(ctx, u.ID, day)
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "leads: list failed", err)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"working_day": day,
		"leads":       leads,
	})
}

// Counts returns per-status totals for the company and day. Operator
// and admin only.
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
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
	day, valid := dayParam(r)
	if !valid {
		httpjson.BadRequest(w, "invalid working_day")
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	counts, err := h.Store.CountByStatus(ctx, companyID, day)
	if err != nil {
		h.ErrLog.ServerError(w, r, "leads: counts failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"working_day": day,
		"counts":      counts,
	})
}
