// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging, and request limits. AppConfig is where everything
// specific to SocietyHub lives: the MongoDB connection, session cookie
// settings, and the super admin bootstrap account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: societyhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// SuperAdmin bootstrap: if set and no such user exists, a super admin
	// account is created on startup.
	SuperAdminEmail    string
	SuperAdminName     string
	SuperAdminPassword string // initial password; the account must change it on first login
}
