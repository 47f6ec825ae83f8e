// internal/app/features/health/handler.go
package health

import (
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/realtime"
	"github.com/leadrelay/leadrelay/internal/app/system/timeouts"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	Client   *mongo.Client
	Realtime *realtime.Publisher
	Log      *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(client *mongo.Client, rt *realtime.Publisher, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Realtime: rt, Log: logger}
}

type report struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
	Redis  string `json:"redis"`
}

// Check pings MongoDB and Redis. 200 when both answer, 503 otherwise.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	rep := report{Status: "ok", Mongo: "ok", Redis: "ok"}
	healthy := true

	if err := h.Client.Ping(ctx, nil); err != nil {
		h.Log.Warn("health: mongo ping failed", zap.Error(err))
		rep.Mongo = "unreachable"
		healthy = false
	}
	if err := h.Realtime.Ping(ctx); err != nil {
		h.Log.Warn("health: redis ping failed", zap.Error(err))
		rep.Redis = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		rep.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	httpjson.Write(w, status, rep)
}
