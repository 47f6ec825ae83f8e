// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LeadRelay.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: LEADRELAY_MONGO_URI, LEADRELAY_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lead_relay", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "leadrelay_session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Realtime pub/sub
	{Name: "redis_url", Default: "", Desc: "Redis URL for realtime screenshot events (blank disables)"},

	// Upstream distributor
	{Name: "upstream_url", Default: "", Desc: "Base URL of the upstream lead distributor API (required)"},

	// Push notifications
	{Name: "push_url", Default: "", Desc: "Push notification gateway endpoint (blank disables)"},

	// Base URL for magic links
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for magic links"},
	{Name: "dashboard_url", Default: "/dashboard", Desc: "Post-sign-in redirect destination"},

	// Magic link settings
	{Name: "token_expiry", Default: "15m", Desc: "Magic link token expiry (e.g., 15m, 1h)"},

	// Lead intake
	{Name: "phone_region", Default: "BD", Desc: "Default region for national-format phone numbers"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LEADRELAY_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LEADRELAY", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		RedisURL:    appValues.String("redis_url"),
		UpstreamURL: appValues.String("upstream_url"),
		PushURL:     appValues.String("push_url"),

		BaseURL:      appValues.String("base_url"),
		DashboardURL: appValues.String("dashboard_url"),

		TokenExpiry: appValues.Duration("token_expiry", 15*time.Minute),

		PhoneRegion: appValues.String("phone_region"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// LeadRelay validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and requires the upstream
// distributor URL since lead assignment cannot work without it.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.UpstreamURL == "" {
		return fmt.Errorf("upstream_url is required (base URL of the lead distributor API)")
	}

	// A blank key would leave every session forgeable.
	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key must not be empty")
	}

	return nil
}
