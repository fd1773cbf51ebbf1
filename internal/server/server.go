// Package server exposes the breathing session engine, statistics, and
// preferences over HTTP for the web frontend.
package server

import (
	"log/slog"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"github.com/stillpoint/breathbox/internal/breath"
	"github.com/stillpoint/breathbox/internal/config"
	"github.com/stillpoint/breathbox/internal/cue"
	"github.com/stillpoint/breathbox/internal/prefs"
	"github.com/stillpoint/breathbox/internal/stats"
)

// Server represents the HTTP server.
type Server struct {
	config *config.Config
	logger *slog.Logger
	router *gin.Engine

	engine *breath.Engine
	stats  *stats.Store
	prefs  *prefs.Store
	cues   *cue.Source
}

// New creates a new Server instance.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	engine *breath.Engine,
	statsStore *stats.Store,
	prefsStore *prefs.Store,
	cueSource *cue.Source,
) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	server := &Server{
		config: cfg,
		logger: logger,
		router: router,
		engine: engine,
		stats:  statsStore,
		prefs:  prefsStore,
		cues:   cueSource,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router returns the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	s.logger.Info("Server listening", "port", s.config.Port)
	return s.router.Run(":" + s.config.Port)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.GET("/session", s.handleGetSession)
		api.POST("/session", s.handleStartSession)
		api.DELETE("/session", s.handleStopSession)
		api.GET("/session/events", s.handleSessionEvents)

		api.GET("/stats", s.handleGetStats)

		api.GET("/preferences", s.handleGetPreferences)
		api.PUT("/preferences", s.handleUpdatePreferences)

		api.GET("/cue/:phase", s.handleCue)
	}

	// Serve the frontend as a fallback for everything else
	s.router.Use(static.Serve("/", static.LocalFile(s.config.StaticDir, false)))
}
