package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"daycheck/pkg"
	"daycheck/pkg/config"
	"daycheck/pkg/tracing"
)

func MetricsMiddleware(metrics *tracing.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
			duration,
		)
	}
}

func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *tracing.AppMetrics, logger *config.LokiLogger) {
	SetupGinMiddlewareWithConfig(router, serviceName, metrics, logger, config.GetDefaultConfig())
}

func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *tracing.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) {
	httpsEnforcer := config.NewHTTPSEnforcer(logger.Logger.Logger, cfg.EnforceHTTPS)
	router.Use(httpsEnforcer.HTTPSMiddleware())

	router.Use(otelgin.Middleware(serviceName))

	router.Use(LoggingMiddleware(logger))

	if cfg.CacheEnabled {
		responseCache := NewResponseCache(logger.Logger.Logger, metrics)
		for path, cacheConfig := range cfg.CacheConfigs {
			responseCache.SetConfig(path, cacheConfig)
		}
		router.Use(responseCache.CacheMiddleware())
	}

	if cfg.RateLimitEnabled {
		rateLimiter := NewRateLimiter(logger.Logger.Logger, metrics)
		for path, rlConfig := range cfg.RateLimitConfigs {
			rateLimiter.SetConfig(path, RateLimitEndpointConfig{
				Requests: rlConfig.Requests,
				Window:   rlConfig.Window,
				KeyFunc:  pkg.GetClientIP,
			})
		}
		router.Use(rateLimiter.RateLimitMiddleware())
	}

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}
}
