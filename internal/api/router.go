package api

import (
	"github.com/gin-gonic/gin"

	"github.com/timmy/foodlens/internal/api/handler"
	"github.com/timmy/foodlens/internal/api/middleware"
	"github.com/timmy/foodlens/internal/config"
	"github.com/timmy/foodlens/internal/logger"
	"github.com/timmy/foodlens/internal/metrics"
	"github.com/timmy/foodlens/internal/service"
)

// Dependencies are the long-lived objects the router hands to its handlers.
type Dependencies struct {
	Analysis *service.AnalysisService
	Sessions *service.SessionStore
	Metrics  *metrics.Metrics // nil disables /metrics
	Logger   *logger.Logger
	Config   *config.Config
	OCRName  string
	Model    string
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps *Dependencies) *gin.Engine {
	cfg := deps.Config

	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	log := deps.Logger
	if log == nil {
		log = logger.GetDefault()
	}

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	healthHandler := handler.NewHealthHandler(deps.OCRName, deps.Model)
	labelHandler := handler.NewLabelHandler(deps.Analysis, deps.Sessions, cfg.OCR.AcceptedFormats, cfg.Server.MaxUploadBytes())
	sessionHandler := handler.NewSessionHandler(deps.Sessions)

	r.GET("/health", healthHandler.Health)

	if deps.Metrics != nil && cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/keywords", labelHandler.Keywords)

		// Labels
		v1.POST("/labels", labelHandler.Upload)

		// Sessions
		v1.GET("/sessions/:id", sessionHandler.Get)
		v1.POST("/sessions/:id/analyze", sessionHandler.Analyze)
		v1.DELETE("/sessions/:id", sessionHandler.Delete)
	}

	return r
}
