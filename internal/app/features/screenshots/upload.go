// internal/app/features/screenshots/upload.go
package screenshots

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/system/authz"
	"github.com/leadrelay/leadrelay/internal/app/system/capability"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/push"
	"github.com/leadrelay/leadrelay/internal/app/system/realtime"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
	"github.com/leadrelay/leadrelay/internal/app/system/workday"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

type uploadRequest struct {
	LeadID  string `json:"lead_id"`
	Product string `json:"product,omitempty"`
	FileURL string `json:"file_url"`
	Notes   string `json:"notes,omitempty"`
}

// Upload attaches a proof-of-work screenshot to a lead for the current
// working day and fans the event out to the company's realtime channels
// and push subscribers. Fan-out is best-effort: a broker or gateway
// failure never fails the upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
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

	var req uploadRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	leadID, err := primitive.ObjectIDFromHex(req.LeadID)
	if err != nil {
		httpjson.BadRequest(w, "invalid lead_id")
		return
	}
	if !urlutil.IsValidAbsHTTPURL(req.FileURL) {
		httpjson.BadRequest(w, "file_url must be an absolute http(s) URL")
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
		h.ErrLog.ServerError(w, r, "screenshots: company load failed", err)
		return
	}

	eff := capability.Resolve(u.Memberships, companyID, company.RoleMode)
	if !eff.CanUploadLeads {
		httpjson.Forbidden(w, "forbidden")
		return
	}

	shot, err := h.Store.Create(ctx, models.Screenshot{
		LeadID:     leadID,
		CompanyID:  companyID,
		UploaderID: u.ID,
		Product:    strings.TrimSpace(req.Product),
		WorkingDay: workday.Today(),
		FileURL:    req.FileURL,
		Notes:      strings.TrimSpace(h.sanitizer.Sanitize(req.Notes)),
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "screenshots: create failed", err)
		return
	}

	h.fanOut(r.Context(), realtime.Event{
		Type:       realtime.EventUploaded,
		LeadID:     shot.LeadID.Hex(),
		Product:    shot.Product,
		WorkingDay: shot.WorkingDay,
		CompanyID:  shot.CompanyID.Hex(),
		UploaderID: shot.UploaderID.Hex(),
	}, push.Notification{
		Title: "Screenshot uploaded",
		Body:  shot.Product + " proof for " + shot.WorkingDay,
		Data:  push.Data{URL: h.DashboardURL},
	})

	h.Log.Info("screenshot uploaded",
		zap.String("screenshot_id", shot.ID.Hex()),
		zap.String("lead_id", shot.LeadID.Hex()),
		zap.String("company_id", shot.CompanyID.Hex()))
	httpjson.Write(w, http.StatusCreated, shot)
}

// fanOut publishes the realtime event and sends the push notification.
func (h *Handler) fanOut(ctx context.Context, ev realtime.Event, n push.Notification) {
	h.Realtime.Publish(ctx, ev)
	if err := h.Push.Send(ctx, n); err != nil {
		h.Log.Warn("push send failed", zap.Error(err))
	}
}
