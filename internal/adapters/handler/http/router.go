package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/comitanigiacomo/equilibrio-api/internal/adapters/handler/http/middleware"
)

// HealthCheck pings one backing dependency.
type HealthCheck func(ctx context.Context) error

type RouterDependencies struct {
	EntryHandler    *EntryHandler
	TokenValidator  middleware.TokenValidator
	Redis           *redis.Client
	RateLimit       int
	RateLimitWindow time.Duration
	HealthChecks    map[string]HealthCheck
	Logger          logrus.FieldLogger
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	router.GET("/health", healthHandler(deps))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")
	if deps.TokenValidator != nil {
		apiV1.Use(middleware.AuthMiddleware(deps.TokenValidator))
	}
	if deps.Redis != nil && deps.RateLimit > 0 {
		apiV1.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, deps.RateLimitWindow, deps.Logger))
	}

	deps.EntryHandler.RegisterRoutes(apiV1)

	return router
}

func healthHandler(deps RouterDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		statusCode := http.StatusOK
		checks := gin.H{}
		for name, check := range deps.HealthChecks {
			if err := check(ctx); err != nil {
				deps.Logger.WithError(err).WithField("dependency", name).Warn("health check failed")
				checks[name] = "unreachable"
				statusCode = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "connected"
		}

		status := "ok"
		if statusCode != http.StatusOK {
			status = "degraded"
		}

		c.JSON(statusCode, gin.H{
			"status":       status,
			"dependencies": checks,
			"uptime":       time.Since(deps.StartTime).String(),
		})
	}
}
