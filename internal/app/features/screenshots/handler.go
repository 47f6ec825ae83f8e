// internal/app/features/screenshots/handler.go
package screenshots

import (
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	screenshotstore "github.com/leadrelay/leadrelay/internal/app/store/screenshots"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/push"
	"github.com/leadrelay/leadrelay/internal/app/system/realtime"
)

// Handler owns the proof-of-work screenshot flow: upload, listing, and
// review. Uploads and reviews fan out over Redis and push.
type Handler struct {
	Store     *screenshotstore.Store
	Companies *companystore.Store
	Realtime  *realtime.Publisher
	Push      *push.Sender

	// DashboardURL is the click-through target on push notifications.
	DashboardURL string

	sanitizer *bluemonday.Policy

	Log    *zap.Logger
	ErrLog *httpjson.ErrorLogger
}

// NewHandler constructs a screenshots Handler.
func NewHandler(db *mongo.Database, rt *realtime.Publisher, sender *push.Sender, dashboardURL string, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:        screenshotstore.New(db),
		Companies:    companystore.New(db),
		Realtime:     rt,
		Push:         sender,
		DashboardURL: dashboardURL,
		sanitizer:    bluemonday.StrictPolicy(),
		Log:          logger,
		ErrLog:       errLog,
	}
}
