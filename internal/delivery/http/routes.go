package http

import (
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/skifa/recipescaler/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Request ID first so recovery and logging can see it
	router.Use(requestid.New())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, time.Minute, logger))
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/cost", handler.ComputeCost)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/search", handler.SearchCatalog)
			catalog.GET("/selections", handler.Selections)
			catalog.POST("/refresh", handler.RefreshCatalog)
		}
	}

	return router
}
