// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	dashboardfeature "github.com/dalemusser/pmhub/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/pmhub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/pmhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/pmhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/pmhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/pmhub/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/pmhub/internal/app/features/projects"
	usersfeature "github.com/dalemusser/pmhub/internal/app/features/users"
	"github.com/dalemusser/pmhub/internal/app/system/auditlog"
	"github.com/dalemusser/pmhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, storage connection, schema setup,
// and Startup have completed, so the workspace container is loaded.
//
// pmhub applies session middleware and mounts the JSON feature routers:
// health, login/session, logout, users, projects (with tasks and time),
// dashboard views, the full state, and the change event stream.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Services == nil || deps.Services.Workspace == nil {
		return nil, errors.New("build handler: workspace not loaded")
	}
	c := deps.Services.Workspace

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request: role changes and removals take effect immediately.
	sessionMgr.SetUserFetcher(loginfeature.NewFetcher(c))

	errLog := errorsfeature.NewErrorLogger(logger)
	audit := auditlog.New(logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	r := chi.NewRouter()

	// Set before mounting so subrouters inherit them.
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.KV, appCfg.StorageType, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	dashboardHandler := dashboardfeature.NewHandler(c, logger)

	r.Route("/api", func(api chi.Router) {
		api.NotFound(errorsHandler.NotFound)
		api.MethodNotAllowed(errorsHandler.MethodNotAllowed)

		logoutHandler := logoutfeature.NewHandler(c, sessionMgr, audit, logger)
		api.Mount("/logout", logoutfeature.Routes(logoutHandler))

		usersHandler := usersfeature.NewHandler(c, errLog, audit, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

		projectsHandler := projectsfeature.NewHandler(c, errLog, audit, logger)
		api.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

		api.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))
		api.With(sessionMgr.RequireSignedIn).Get("/state", dashboardHandler.ServeState)

		eventsHandler := eventsfeature.NewHandler(c, logger)
		api.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

		// /api/login and /api/session
		loginHandler := loginfeature.NewHandler(c, sessionMgr, errLog, audit, logger)
		loginHandler.Limiter = deps.Services.Logins
		api.Mount("/", loginfeature.Routes(loginHandler))
	})

	return r, nil
}
