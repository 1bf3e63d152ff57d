// Package api assembles the HTTP surface: clearing runs, the benchmark
// shortcut, and dataset inspection.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flexmarket/internal/api/handlers"
	"flexmarket/internal/api/middleware"
)

// NewRouter builds the gin engine with all routes and middleware. The
// returned run handler is exposed so callers (and tests) can inject a solver
// backend.
func NewRouter(log *zap.Logger) (*gin.Engine, *handlers.RunHandler) {
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	runHandler := handlers.NewRunHandler(log)
	datasetHandler := handlers.NewDatasetHandler()

	v1 := router.Group("/api/v1")
	{
		v1.POST("/run", runHandler.Run)
		v1.GET("/benchmark", runHandler.Benchmark)
		v1.POST("/dataset", datasetHandler.Inspect)
	}

	return router, runHandler
}
