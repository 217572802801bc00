// Package http provides the API server, its router and the separate metrics server.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authHTTP "github.com/allisson/authgate/internal/auth/http"
	"github.com/allisson/authgate/internal/config"
	"github.com/allisson/authgate/internal/metrics"
	userHTTP "github.com/allisson/authgate/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// Server represents the API HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new Server. The router is built by SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(host, port),
	}
}

// newHTTPServer returns an http.Server with the timeouts shared by the API and
// metrics servers. The handler is attached later.
func newHTTPServer(host string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// RouterDependencies groups what SetupRouter wires into the route table.
type RouterDependencies struct {
	AuthHandler       *authHTTP.AuthHandler
	UserHandler       *userHTTP.UserHandler
	AdminHandler      *userHTTP.AdminHandler
	PrincipalResolver authHTTP.PrincipalResolver
	AccessPolicy      *authDomain.AccessPolicy
	SecurityMetrics   metrics.SecurityMetrics
	MetricsProvider   *metrics.Provider
}

// SetupRouter builds the gin engine.
//
// Every request passes through request id, logging, HTTP metrics, CORS,
// authentication and the access policy, in that order. The rate limiter cleanup
// goroutine stops when ctx is cancelled.
func (s *Server) SetupRouter(ctx context.Context, cfg *config.Config, deps RouterDependencies) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(newRequestID)))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cfg.MetricsEnabled && deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(authHTTP.AuthenticationMiddleware(deps.PrincipalResolver, deps.SecurityMetrics, s.logger))
	router.Use(authHTTP.AccessPolicyMiddleware(deps.AccessPolicy, deps.SecurityMetrics, s.logger))

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/api")
	api.GET("/health", s.healthHandler)

	auth := api.Group("/auth")
	auth.GET("/health", deps.AuthHandler.HealthHandler)
	{
		credentials := auth.Group("")
		if cfg.RateLimitAuthEnabled {
			credentials.Use(authHTTP.IPRateLimitMiddleware(
				ctx,
				cfg.RateLimitAuthRequestsPerSec,
				cfg.RateLimitAuthBurst,
				s.logger,
			))
		}
		credentials.POST("/signup", deps.AuthHandler.SignUpHandler)
		credentials.POST("/login", deps.AuthHandler.LoginHandler)
		credentials.POST("/refresh-token", deps.AuthHandler.RefreshTokenHandler)
	}

	users := api.Group("/users")
	{
		users.GET("/me", deps.UserHandler.MeHandler)
		users.GET("/username/:username", deps.UserHandler.GetByUsernameHandler)
		users.GET("/:id", deps.UserHandler.GetHandler)
		users.PUT("/:id", deps.UserHandler.UpdateProfileHandler)
		users.POST("/:id/change-password", deps.UserHandler.ChangePasswordHandler)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/statistics", deps.AdminHandler.StatisticsHandler)

		admin.GET("/users", deps.AdminHandler.ListUsersHandler)
		admin.GET("/users/:id", deps.AdminHandler.GetUserHandler)
		admin.POST("/users/:id/roles", deps.AdminHandler.AssignRoleHandler)
		admin.DELETE("/users/:id/roles/:roleName", deps.AdminHandler.RemoveRoleHandler)
		admin.POST("/users/:id/activate", deps.AdminHandler.ActivateUserHandler)
		admin.POST("/users/:id/deactivate", deps.AdminHandler.DeactivateUserHandler)
		admin.POST("/users/:id/verify-email", deps.AdminHandler.VerifyEmailHandler)

		admin.GET("/roles", deps.AdminHandler.ListRolesHandler)
		admin.GET("/roles/:id", deps.AdminHandler.GetRoleHandler)
		admin.POST("/roles", deps.AdminHandler.CreateRoleHandler)
		admin.PUT("/roles/:id", deps.AdminHandler.UpdateRoleHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router is not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, which requires a reachable database.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
