// internal/app/features/leads/proxy.go
package leads

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/upstream"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

func leadIDParam(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}

// proxySession builds the identity headers for an upstream call from
// the current request.
func (h *Handler) proxySession(r *http.Request, u models.User, companyID primitive.ObjectID) upstream.Session {
	role := ""
	if m, ok := u.MembershipFor(companyID); ok {
		role = m.Role
	}
	return upstream.Session{
		Token:     h.Sessions.RawToken(r),
		CompanyID: companyID.Hex(),
		Role:      role,
	}
}

// ProxyAssign forwards a manual assignment to the distributor, which
// owns placement decisions. The response passes through 1:1.
func (h *Handler) ProxyAssign(w http.ResponseWriter, r *http.Request) {
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

	h.Upstream.Proxy(w, r, "/leads/"+leadID.Hex()+"/assign", h.proxySession(r, u, companyID))
}

// ProxyRedistribute forwards a bulk redistribution request.
func (h *Handler) ProxyRedistribute(w http.ResponseWriter, r *http.Request) {
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

	h.Upstream.Proxy(w, r, "/leads/redistribute", h.proxySession(r, u, companyID))
}
