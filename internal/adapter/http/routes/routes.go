package routes

import (
	"net/http"

	"daycheck/internal/adapter/http/handler"
	"daycheck/internal/adapter/http/middleware"
	. "daycheck/pkg/config"
	. "daycheck/pkg/tracing"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	ChecklistHandler *handler.ChecklistHandler
}

func SetupRouter(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *AppMetrics, logger *LokiLogger, config *AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	middleware.SetupGinMiddlewareWithConfig(router, "daycheck", metrics, logger, config)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupHealthRoutes(router)

	if handlers.ChecklistHandler != nil {
		setupChecklistRoutes(router, handlers.ChecklistHandler)
	}

	return router
}

func setupHealthRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func setupChecklistRoutes(router *gin.Engine, checklistHandler *handler.ChecklistHandler) {
	checklist := router.Group("/")
	{
		checklist.GET("/checklist", checklistHandler.GetChecklist)
		checklist.GET("/summary", checklistHandler.GetSummary)

		checklist.POST("/tasks", checklistHandler.AddTask)
		checklist.POST("/tasks/:uuid/edit", checklistHandler.BeginEdit)
		checklist.PUT("/tasks/:uuid", checklistHandler.CommitEdit)
		checklist.DELETE("/tasks/:uuid/edit", checklistHandler.CancelEdit)
		checklist.DELETE("/tasks/:uuid", checklistHandler.DeleteTask)

		checklist.POST("/tasks/:uuid/toggle", checklistHandler.ToggleCompletion)
		checklist.POST("/completions/reset", checklistHandler.ResetToday)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	setupHealthRoutes(router)

	if handlers.ChecklistHandler != nil {
		setupChecklistRoutes(router, handlers.ChecklistHandler)
	}

	return router
}
