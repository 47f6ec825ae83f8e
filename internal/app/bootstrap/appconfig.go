// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration; core settings like
// ports, TLS, and log levels live in CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: leadrelay_session)
	SessionDomain string // Cookie domain (blank means current host)

	// Redis pub/sub for realtime screenshot events (blank disables)
	RedisURL string

	// Upstream distributor (SERVER_API) base URL
	UpstreamURL string

	// Push notification gateway endpoint (blank disables)
	PushURL string

	// BaseURL is this service's external URL, used to build magic links.
	BaseURL string
	// DashboardURL is the post-sign-in destination and the push
	// notification click-through target.
	DashboardURL string

	// Magic link token lifetime
	TokenExpiry time.Duration

	// Default region for parsing national-format phone numbers
	PhoneRegion string
}
