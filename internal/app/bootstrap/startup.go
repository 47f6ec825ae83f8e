// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	distswitchstore "github.com/leadrelay/leadrelay/internal/app/store/distswitch"
	logintokenstore "github.com/leadrelay/leadrelay/internal/app/store/logintokens"
	"github.com/leadrelay/leadrelay/internal/app/system/workers"
)

// runner holds the background job scheduler so Shutdown can stop it.
var runner *workers.Runner

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// LeadRelay starts the background scheduler here: the 10:00 cutover job
// that carries distribution switches into the new working day, and the
// hourly sweep of spent magic link tokens.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	r, err := workers.NewRunner(
		distswitchstore.New(deps.MongoDatabase),
		logintokenstore.New(deps.MongoDatabase, appCfg.TokenExpiry),
		logger,
	)
	if err != nil {
		return err
	}
	runner = r
	runner.Start()
	logger.Info("background workers started")
	return nil
}
