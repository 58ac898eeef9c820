// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	changepasswordfeature "github.com/dalemusser/societyhub/internal/app/features/changepassword"
	errorsfeature "github.com/dalemusser/societyhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/societyhub/internal/app/features/health"
	homefeature "github.com/dalemusser/societyhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/societyhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/societyhub/internal/app/features/logout"
	societyfeature "github.com/dalemusser/societyhub/internal/app/features/society"
	superadminfeature "github.com/dalemusser/societyhub/internal/app/features/superadmin"
	tenantfeature "github.com/dalemusser/societyhub/internal/app/features/tenant"
	userstore "github.com/dalemusser/societyhub/internal/app/store/users"
	"github.com/dalemusser/societyhub/internal/app/system/auth"
	"github.com/dalemusser/societyhub/internal/app/system/credentials"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
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
// SocietyHub initializes the template engine, applies session middleware,
// and mounts feature routers for all application areas: login, password
// change, the super admin console, society management, and the tenant view.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Set up the UserFetcher so LoadSessionUser fetches fresh user data on each request.
	// This ensures role changes, disabled accounts, and profile updates take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.SocietyHubMongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Credential provisioning writes password hashes alongside user rows.
	prov := credentials.NewMongoProvider(deps.SocietyHubMongoDatabase)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.SocietyHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Home dispatches each signed-in user to their role's landing page.
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.SocietyHubMongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Password change (reachable before FirstLoginCompleted, unlike the
	// feature areas below).
	changePasswordHandler := changepasswordfeature.NewHandler(deps.SocietyHubMongoDatabase, prov, errLog, logger)
	r.Mount("/change-password", changepasswordfeature.Routes(changePasswordHandler, sessionMgr))

	// Super admin console: societies and their admins.
	superAdminHandler := superadminfeature.NewHandler(deps.SocietyHubMongoDatabase, prov, errLog, logger)
	r.Mount("/super-admin", superadminfeature.Routes(superAdminHandler, sessionMgr))

	// Society management: dashboards and resident provisioning.
	societyHandler := societyfeature.NewHandler(deps.SocietyHubMongoDatabase, prov, errLog, logger)
	r.Mount("/society", societyfeature.Routes(societyHandler, sessionMgr))

	// Tenant read-only view of their society.
	tenantHandler := tenantfeature.NewHandler(deps.SocietyHubMongoDatabase, errLog, logger)
	r.Mount("/tenant", tenantfeature.Routes(tenantHandler, sessionMgr))

	return r, nil
}
