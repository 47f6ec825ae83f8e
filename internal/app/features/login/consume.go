// internal/app/features/login/consume.go
package login

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	logintokenstore "github.com/leadrelay/leadrelay/internal/app/store/logintokens"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
)

// Consume spends a magic link token and establishes the session. A
// successful consumption bumps the user's session epoch, which kills
// every previously issued cookie for the account. Failures answer 401
// with the token store's message verbatim ("Invalid or used" or
// "Expired"); the sign-in page shows it as-is.
func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpjson.Unauthorized(w, logintokenstore.ErrInvalidOrUsed.Error())
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	userID, err := h.Tokens.Consume(ctx, token)
	if err != nil {
		switch err {
		case logintokenstore.ErrInvalidOrUsed, logintokenstore.ErrExpired:
			httpjson.Unauthorized(w, err.Error())
		default:
			h.ErrLog.ServerError(w, r, "consume: token lookup failed", err)
		}
		return
	}

	if _, err := h.Users.BumpSessionEpoch(ctx, userID); err != nil {
		h.ErrLog.ServerError(w, r, "consume: epoch bump failed", err)
		return
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Unauthorized(w, logintokenstore.ErrInvalidOrUsed.Error())
			return
		}
		h.ErrLog.ServerError(w, r, "consume: user load failed", err)
		return
	}
	if u.Status != "active" {
		httpjson.Unauthorized(w, logintokenstore.ErrInvalidOrUsed.Error())
		return
	}

	if err := h.Sessions.SignIn(w, r, u); err != nil {
		h.ErrLog.ServerError(w, r, "consume: session write failed", err)
		return
	}

	h.Log.Info("user signed in",
		zap.String("user_id", u.ID.Hex()),
		zap.Int64("session_epoch", u.SessionEpoch))

	dest := urlutil.SafeReturn(r.URL.Query().Get("return"), "", h.DashboardURL)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// Logout tears the session down. Mounted behind the session gate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.ErrLog.ServerError(w, r, "logout: session clear failed", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "signed_out"})
}
