// internal/app/features/distribution/switch.go
package distribution

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/app/system/upstream"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
)

type switchResponse struct {
	CompanyID  string `json:"company_id,omitempty"`
	WorkingDay string `json:"working_day"`
	Enabled    bool   `json:"enabled"`
	// Explicit reports whether a switch document exists for this exact
	// scope and day, as opposed to the global or default fallback.
	Explicit bool `json:"explicit"`
}

// GetSwitch reports whether distribution runs for the company on the
// day: the company switch if set, else the global switch, else enabled.
func (h *Handler) GetSwitch(w http.ResponseWriter, r *http.Request) {
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

	day := query.Get(r, "working_day")
	if day == "" {
		day = workday.Today()
	} else if !workday.Valid(day) {
		httpjson.BadRequest(w, "invalid working_day")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	resp := switchResponse{CompanyID: companyID.Hex(), WorkingDay: day}

	sw, err := h.Switches.Get(ctx, &companyID, day)
	switch err {
	case nil:
		resp.Enabled = sw.Enabled
		resp.Explicit = true
	case mongo.ErrNoDocuments:
		resp.Enabled, err = h.Switches.Effective(ctx, companyID, day)
		if err != nil {
			h.ErrLog.ServerError(w, r, "distribution: switch resolve failed", err)
			return
		}
	default:
		h.ErrLog.ServerError(w, r, "distribution: switch load failed", err)
		return
	}

	httpjson.Write(w, http.StatusOK, resp)
}

type setSwitchRequest struct {
	Enabled    bool   `json:"enabled"`
	WorkingDay string `json:"working_day,omitempty"`
	// Global sets the fallback switch for every company without its own.
	// Superadmin only.
	Global bool `json:"global,omitempty"`
}

// SetSwitch flips distribution on or off for (company, working day), or
// globally for the day.
func (h *Handler) SetSwitch(w http.ResponseWriter, r *http.Request) {
	u, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Unauthorized(w, "unauthorized")
		return
	}

	var req setSwitchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	day := req.WorkingDay
	if day == "" {
		day = workday.Today()
	} else if !workday.Valid(day) {
		httpjson.BadRequest(w, "invalid working_day")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if req.Global {
		if !authz.IsSuperAdmin(u) {
			httpjson.Forbidden(w, "forbidden")
			return
		}
		sw, err := h.Switches.Upsert(ctx, nil, day, req.Enabled, u.ID)
		if err != nil {
			h.ErrLog.ServerError(w, r, "distribution: global switch upsert failed", err)
			return
		}
		h.Log.Info("global distribution switch set",
			zap.String("working_day", day),
			zap.Bool("enabled", req.Enabled))
		httpjson.Write(w, http.StatusOK, switchResponse{
			WorkingDay: sw.WorkingDay,
			Enabled:    sw.Enabled,
			Explicit:   true,
		})
		return
	}

	companyID, err := authz.CompanyScope(r)
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	if !authz.IsCompanyAdmin(u, companyID) {
		httpjson.Forbidden(w, "forbidden")
		return
	}

	sw, err := h.Switches.Upsert(ctx, &companyID, day, req.Enabled, u.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "distribution: switch upsert failed", err)
		return
	}

	h.Log.Info("distribution switch set",
		zap.String("company_id", companyID.Hex()),
		zap.String("working_day", day),
		zap.Bool("enabled", req.Enabled))
	httpjson.Write(w, http.StatusOK, switchResponse{
		CompanyID:  companyID.Hex(),
		WorkingDay: sw.WorkingDay,
		Enabled:    sw.Enabled,
		Explicit:   true,
	})
}

// ProxyRun asks the upstream distributor to run assignment now,
// refusing when the switch for the scope is off.
func (h *Handler) ProxyRun(w http.ResponseWriter, r *http.Request) {
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
	if !authz.IsCompanyAdmin(u, companyID) {
		httpjson.Forbidden(w, "forbidden")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	on, err := h.Switches.Effective(ctx, companyID, workday.Today())
	if err != nil {
		h.ErrLog.ServerError(w, r, "distribution: switch resolve failed", err)
		return
	}
	if !on {
		httpjson.BadRequest(w, "distribution is disabled for this working day")
		return
	}

	role := ""
	if m, found := u.MembershipFor(companyID); found {
		role = m.Role
	}
	h.Upstream.Proxy(w, r, "/distribution/run", upstream.Session{
		Token:     h.Sessions.RawToken(r),
		CompanyID: companyID.Hex(),
		Role:      role,
	})
}
