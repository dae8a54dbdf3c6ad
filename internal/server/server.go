package server

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/glint-dev/glint/internal/config"
	"github.com/glint-dev/glint/internal/orchestrator"
	"github.com/glint-dev/glint/internal/providers"
)

const serviceVersion = "1.0.0"

// Service is what the handlers need from the orchestrator. Narrowed to an
// interface so route tests can run against a stub.
type Service interface {
	AnalyzeCode(ctx context.Context, code, language, analysisType string) (orchestrator.AnalyzeResult, error)
	OptimizeCode(ctx context.Context, code, language, focus string) (providers.GenerateResult, error)
	DocumentCode(ctx context.Context, code, language, style string) (providers.GenerateResult, error)
	ExplainCode(ctx context.Context, code, language, level string) (providers.GenerateResult, error)
	GenerateTests(ctx context.Context, code, language, framework string) (providers.GenerateResult, string, error)
	GenerateTestData(ctx context.Context, schema string, count int, format string) (providers.GenerateResult, error)
	SuggestTestCases(ctx context.Context, code, language, existingTests string) (providers.GenerateResult, error)
	Status() orchestrator.Status
	Healthy() bool
}

// Server holds the HTTP surface of the service.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	service Service
	engine  *gin.Engine
}

// New assembles the router with all middleware and routes registered.
func New(cfg *config.Config, logger *slog.Logger, service Service) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		service: service,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(RequestLogger(logger))

	s.engine.GET("/", s.handleRoot)

	health := s.engine.Group("/health")
	{
		health.GET("", s.handleHealth)
		health.GET("/ready", s.handleReady)
		health.GET("/live", s.handleLive)
	}

	api := s.engine.Group("/api")
	api.Use(Auth(cfg.Auth.JWTSecret, logger))
	api.Use(RateLimit(cfg.RateLimit.RequestsPerMinute, logger))
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/optimize", s.handleOptimize)
		api.POST("/document", s.handleDocument)
		api.POST("/explain", s.handleExplain)
		api.POST("/generate-tests", s.handleGenerateTests)
		api.POST("/generate-test-data", s.handleGenerateTestData)
		api.POST("/suggest-test-cases", s.handleSuggestTestCases)
	}

	return s
}

// Handler exposes the router for net/http servers and tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(200, gin.H{
		"service": "glint",
		"version": serviceVersion,
		"status":  "running",
		"providers": gin.H{
			"primary":  s.cfg.Providers.Primary,
			"fallback": s.cfg.Providers.Fallback,
		},
	})
}
