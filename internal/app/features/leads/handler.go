// internal/app/features/leads/handler.go
package leads

import (
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	leadstore "github.com/leadrelay/leadrelay/internal/app/store/leads"
	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/upstream"
)

// Handler owns lead submission, listing, and the proxied distribution
// operations.
type Handler struct {
	Store     *leadstore.Store
	Companies *companystore.Store
	Sessions  *auth.SessionManager
	Upstream  *upstream.Client

	// PhoneRegion is the default region for parsing national-format
	// numbers.
	PhoneRegion string

	sanitizer *bluemonday.Policy

	Log    *zap.Logger
	ErrLog *httpjson.ErrorLogger
}

// NewHandler constructs a leads Handler.
func NewHandler(db *mongo.Database, sessions *auth.SessionManager, up *upstream.Client, phoneRegion string, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:       leadstore.New(db),
		Companies:   companystore.New(db),
		Sessions:    sessions,
		Upstream:    up,
		PhoneRegion: phoneRegion,
		sanitizer:   bluemonday.StrictPolicy(),
		Log:         logger,
		ErrLog:      errLog,
	}
}
