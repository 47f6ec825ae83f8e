// internal/app/features/screenshots/review.go
package screenshots

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	screenshotstore "github.com/leadrelay/leadrelay/internal/app/store/screenshots"
	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/push"
	"github.com/leadrelay/leadrelay/internal/app/system/realtime"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

// List returns the company's screenshots for a working day, optionally
// filtered with ?reviewed=true|false.
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
	if _, member := u.MembershipFor(companyID); !member && !authz.IsSuperAdmin(u) {
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

	var reviewed *bool
	switch query.Get(r, "reviewed") {
	case "":
	case "true":
		v := true
		reviewed = &v
	case "false":
		v := false
		reviewed = &v
	default:
		httpjson.BadRequest(w, "reviewed must be true or false")
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	shots, err := h.Store.ListByCompanyDay(ctx, companyID, day, reviewed)
	if err != nil {
		h.ErrLog.ServerError(w, r, "screenshots: list failed", err)
		return
	}
	if shots == nil {
		shots = []models.Screenshot{}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"working_day": day,
		"screenshots": shots,
	})
}

// Review marks a screenshot reviewed and fans the reviewed event out.
// First reviewer wins; a second attempt answers 400.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
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

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid screenshot id")
		return
	}

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	shot, err := h.Store.Review(ctx, id, u.ID)
	if err != nil {
		switch err {
		case screenshotstore.ErrAlreadyReviewed:
			httpjson.BadRequest(w, err.Error())
		case mongo.ErrNoDocuments:
			httpjson.NotFound(w, "screenshot not found")
		default:
			h.ErrLog.ServerError(w, r, "screenshots: review failed", err)
		}
		return
	}

	h.fanOut(r.Context(), realtime.Event{
		Type:       realtime.EventReviewed,
		LeadID:     shot.LeadID.Hex(),
		Product:    shot.Product,
		WorkingDay: shot.WorkingDay,
		CompanyID:  shot.CompanyID.Hex(),
		UploaderID: shot.UploaderID.Hex(),
		Reviewed:   true,
	}, push.Notification{
		Title: "Screenshot reviewed",
		Body:  shot.Product + " proof for " + shot.WorkingDay + " was reviewed",
		Data:  push.Data{URL: h.DashboardURL},
	})

	h.Log.Info("screenshot reviewed",
		zap.String("screenshot_id", shot.ID.Hex()),
		zap.String("reviewer_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusOK, shot)
}
