// internal/app/features/login/handler.go
package login

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	logintokenstore "github.com/leadrelay/leadrelay/internal/app/store/logintokens"
	userstore "github.com/leadrelay/leadrelay/internal/app/store/users"
	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
)

// Handler owns the magic-link sign-in flow.
type Handler struct {
	Users    *userstore.Store
	Tokens   *logintokenstore.Store
	Sessions *auth.SessionManager

	// BaseURL is this service's external URL, used to build magic links.
	BaseURL string
	// DashboardURL is the post-sign-in destination when no return target
	// was given or it fails validation.
	DashboardURL string

	Log    *zap.Logger
	ErrLog *httpjson.ErrorLogger
}

// NewHandler constructs a login Handler.
func NewHandler(db *mongo.Database, tokens *logintokenstore.Store, sessions *auth.SessionManager, baseURL, dashboardURL string, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        userstore.New(db),
		Tokens:       tokens,
		Sessions:     sessions,
		BaseURL:      baseURL,
		DashboardURL: dashboardURL,
		Log:          logger,
		ErrLog:       errLog,
	}
}
