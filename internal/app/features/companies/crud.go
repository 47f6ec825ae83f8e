// internal/app/features/companies/crud.go
package companies

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

const defaultPageSize = 50

// List returns companies, optionally filtered by a case-insensitive
// name prefix (?q=) and paged with ?limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	filter := bson.M{}
	if q := query.Search(r, "q"); q != "" {
		filter["name_ci"] = bson.M{"$regex": "^" + regexp.QuoteMeta(text.Fold(q))}
	}

	limit := int64(defaultPageSize)
	if raw := query.Get(r, "limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	companies, err := h.Store.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}).SetLimit(limit))
	if err != nil {
		h.ErrLog.ServerError(w, r, "companies: list failed", err)
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"companies": companies})
}

type createRequest struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	RoleMode string `json:"role_mode,omitempty"`
}

// Create registers a company. RoleMode defaults to hybrid.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if req.Name == "" || req.Code == "" {
		httpjson.BadRequest(w, "name and code are required")
		return
	}
	if req.RoleMode != "" && !models.ValidRoleMode(req.RoleMode) {
		httpjson.BadRequest(w, "invalid role_mode")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	company, err := h.Store.Create(ctx, models.Company{
		Name:     req.Name,
		Code:     req.Code,
		RoleMode: req.RoleMode,
	})
	if err != nil {
		if err == companystore.ErrDuplicateCompany {
			httpjson.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.ServerError(w, r, "companies: create failed", err)
		return
	}

	h.Log.Info("company created",
		zap.String("company_id", company.ID.Hex()),
		zap.String("code", company.Code))
	httpjson.Write(w, http.StatusCreated, company)
}

// Show returns one company.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid company id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	company, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "company not found")
			return
		}
		h.ErrLog.ServerError(w, r, "companies: load failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, company)
}

type updateRequest struct {
	Name   string `json:"name,omitempty"`
	Code   string `json:"code,omitempty"`
	Status string `json:"status,omitempty"`
}

// Update patches a company's profile fields.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid company id")
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	err = h.Store.Update(ctx, id, models.Company{
		Name:   req.Name,
		Code:   req.Code,
		Status: req.Status,
	})
	if err != nil {
		if err == companystore.ErrDuplicateCompany {
			httpjson.BadRequest(w, err.Error())
			return
		}
		h.ErrLog.ServerError(w, r, "companies: update failed", err)
		return
	}

	company, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "company not found")
			return
		}
		h.ErrLog.ServerError(w, r, "companies: reload failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, company)
}

// Delete removes a company.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid company id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	n, err := h.Store.Delete(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "companies: delete failed", err)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "company not found")
		return
	}

	h.Log.Info("company deleted", zap.String("company_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}

type roleModeRequest struct {
	RoleMode string `json:"role_mode"`
}

// SetRoleMode switches a company between uploader, receiver, and hybrid.
// The change takes effect on the next request; capabilities are resolved
// fresh each time.
func (h *Handler) SetRoleMode(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid company id")
		return
	}

	var req roleModeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if !models.ValidRoleMode(req.RoleMode) {
		httpjson.BadRequest(w, "invalid role_mode")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	if err := h.Store.SetRoleMode(ctx, id, req.RoleMode); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.NotFound(w, "company not found")
			return
		}
		h.ErrLog.ServerError(w, r, "companies: role mode change failed", err)
		return
	}

	h.Log.Info("company role mode changed",
		zap.String("company_id", id.Hex()),
		zap.String("role_mode", req.RoleMode))
	httpjson.Write(w, http.StatusOK, map[string]string{
		"company_id": id.Hex(),
		"role_mode":  req.RoleMode,
	})
}
