// internal/app/features/distribution/handler.go
package distribution

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	distswitchstore "github.com/leadrelay/leadrelay/internal/app/store/distswitch"
	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/upstream"
)

// Handler owns the per-day distribution switches and the proxied run
// trigger. Assignment itself happens upstream; this service only gates
// whether it may run.
type Handler struct {
	Switches *distswitchstore.Store
	Sessions *auth.SessionManager
	Upstream *upstream.Client
	Log      *zap.Logger
	ErrLog   *httpjson.ErrorLogger
}

// NewHandler constructs a distribution Handler.
func NewHandler(db *mongo.Database, sessions *auth.SessionManager, up *upstream.Client, errLog *httpjson.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Switches: distswitchstore.New(db),
		Sessions: sessions,
		Upstream: up,
		Log:      logger,
		ErrLog:   errLog,
	}
}
