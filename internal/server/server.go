// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"workwise-backend/internal/common/config"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/common/observability"
	"workwise-backend/internal/models"
	"workwise-backend/internal/services/auth/security"
	"workwise-backend/internal/services/auth/session"
	"workwise-backend/internal/services/auth/twofactor"
	"workwise-backend/internal/services/jobs"
	"workwise-backend/internal/services/marketing/analytics"
	"workwise-backend/internal/services/marketing/rules"
	"workwise-backend/internal/services/payments"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers carries every mounted handler
type Handlers struct {
	Rules     *rules.Handler
	Analytics *analytics.Handler
	Jobs      *jobs.Handler
	Session   *session.Handler
	TwoFactor *twofactor.Handler
	Security  *security.Handler
	Payments  *payments.Handler
}

// Server is the HTTP front of the platform
type Server struct {
	cfg    config.ServerConfig
	engine *gin.Engine
	http   *http.Server
	logger logger.Logger
}

func New(cfg *config.Config, handlers Handlers, auth *session.Middleware, obs *observability.Observability, tracing *observability.Tracing, log logger.Logger) *Server {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		RequestLogger(log),
		Metrics(obs),
		Recovery(log),
		Tracing(tracing),
	)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")

	// Job discovery is public
	handlers.Jobs.Register(api)

	// Everything behind a session
	authed := api.Group("/auth", auth.Authenticate())
	handlers.Session.Register(authed)
	handlers.TwoFactor.Register(authed)
	handlers.Security.Register(authed)

	billing := api.Group("/", auth.Authenticate())
	handlers.Payments.Register(billing)

	// Marketing management is admin only
	marketing := api.Group("/marketing", auth.Authenticate(), auth.RequirePermission(models.PermissionAdmin))
	handlers.Rules.Register(marketing)
	handlers.Analytics.Register(marketing)

	return &Server{
		cfg:    cfg.Server,
		engine: engine,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      engine,
			ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
		},
		logger: log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Engine exposes the router, mainly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start blocks serving requests until the listener closes
func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
