// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	companiesfeature "github.com/leadrelay/leadrelay/internal/app/features/companies"
	distributionfeature "github.com/leadrelay/leadrelay/internal/app/features/distribution"
	healthfeature "github.com/leadrelay/leadrelay/internal/app/features/health"
	leadsfeature "github.com/leadrelay/leadrelay/internal/app/features/leads"
	loginfeature "github.com/leadrelay/leadrelay/internal/app/features/login"
	membersfeature "github.com/leadrelay/leadrelay/internal/app/features/members"
	screenshotsfeature "github.com/leadrelay/leadrelay/internal/app/features/screenshots"
	logintokenstore "github.com/leadrelay/leadrelay/internal/app/store/logintokens"
	userstore "github.com/leadrelay/leadrelay/internal/app/store/users"
	"github.com/leadrelay/leadrelay/internal/app/system/auth"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/app/system/push"
	"github.com/leadrelay/leadrelay/internal/app/system/upstream"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// LeadRelay mounts the health probe and magic link flow publicly, the
// lead/screenshot/distribution APIs behind the session gate, and
// company/user administration behind the admin role gate. Analytics
// viewers are blocked from the lead API at the router so the block
// holds for every endpoint mounted under it.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on
	// each request. Role changes, deactivations, and session epoch bumps
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	errLog := httpjson.NewErrorLogger(logger)
	upClient := upstream.NewClient(appCfg.UpstreamURL, logger)
	pushSender := push.NewSender(appCfg.PushURL, logger)
	tokens := logintokenstore.New(db, appCfg.TokenExpiry)

	r := chi.NewRouter()

	// Global auth middleware: loads the session user into the request
	// context when a valid session cookie is present.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Realtime, logger)
	r.Route("/health", healthHandler.MountRoutes)

	// Magic link sign-in (public)
	loginHandler := loginfeature.NewHandler(db, tokens, sessionMgr, appCfg.BaseURL, appCfg.DashboardURL, errLog, logger)
	r.Route("/auth", loginHandler.MountRoutes)

	membersHandler := membersfeature.NewHandler(db, errLog, logger)
	leadsHandler := leadsfeature.NewHandler(db, sessionMgr, upClient, appCfg.PhoneRegion, errLog, logger)
	screenshotsHandler := screenshotsfeature.NewHandler(db, deps.Realtime, pushSender, appCfg.DashboardURL, errLog, logger)
	distributionHandler := distributionfeature.NewHandler(db, sessionMgr, upClient, errLog, logger)

	// Signed-in surface
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)

		r.Post("/auth/logout", loginHandler.Logout)
		r.Route("/me", membersHandler.MountMeRoutes)

		r.Route("/leads", func(r chi.Router) {
			r.Use(sessionMgr.BlockRoles(models.RoleFBAnalyticsViewer))
			leadsHandler.MountRoutes(r)
		})

		r.Route("/screenshots", screenshotsHandler.MountRoutes)
		r.Route("/distribution", distributionHandler.MountRoutes)
	})

	// Admin surface
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireAnyRole(models.RoleAdmin, models.RoleSuperAdmin))

		companiesHandler := companiesfeature.NewHandler(db, errLog, logger)
		r.Route("/companies", companiesHandler.MountRoutes)
		r.Route("/users", membersHandler.MountAdminRoutes)
	})

	return r, nil
}
