// internal/app/features/login/magiclink.go
package login

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
)

type magicLinkRequest struct {
	Email  string `json:"email"`
	Return string `json:"return,omitempty"`
}

// RequestMagicLink issues a single-use sign-in token and dispatches the
// link. The response is the same whether or not the email matches an
// account, so the endpoint cannot be used to probe for registered
// addresses.
func (h *Handler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		httpjson.BadRequest(w, "email is required")
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	accepted := func() {
		httpjson.Write(w, http.StatusAccepted, map[string]string{
			"status": "sent",
		})
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			h.Log.Info("magic link requested for unknown email")
			accepted()
			return
		}
		h.ErrLog.ServerError(w, r, "magic link: user lookup failed", err)
		return
	}
	if u.Status != "active" {
		h.Log.Info("magic link requested for inactive account",
			zap.String("user_id", u.ID.Hex()))
		accepted()
		return
	}

	token, err := h.Tokens.Issue(ctx, u.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "magic link: token issue failed", err)
		return
	}

	link := h.BaseURL + "/auth/consume?token=" + url.QueryEscape(token)
	if ret := urlutil.SafeReturn(req.Return, "", ""); ret != "" {
		link += "&return=" + url.QueryEscape(ret)
	}

	h.dispatchLink(u.Email, link)
	accepted()
}

// dispatchLink hands the link to the mail pipeline. The mailer runs as a
// separate delivery service consuming the outbound log stream; locally
// the link lands in the log for copy-paste sign-in.
func (h *Handler) dispatchLink(email, link string) {
	h.Log.Info("magic link issued",
		zap.String("email", email),
		zap.String("link", link))
}
