package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dev0b1/selah-sub001/internal/config"
	"github.com/dev0b1/selah-sub001/internal/http/handlers"
	"github.com/dev0b1/selah-sub001/internal/http/middleware"
	"github.com/dev0b1/selah-sub001/internal/jobs"
	"github.com/dev0b1/selah-sub001/internal/tracks"
)

// SetupRoutes wires all API routes.
func SetupRoutes(cfg *config.Config, composer handlers.ComposeService, registry *tracks.Registry, jobStore *jobs.JobStore) *gin.Engine {
	router := gin.New()

	composeHandler := handlers.NewComposeHandler(composer, jobStore)
	moodsHandler := handlers.NewMoodsHandler(registry)
	metricsHandler := handlers.NewMetricsHandler()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler(middleware.RequestLogger()))

	var baseRouter gin.IRoutes
	if cfg.Server.BasePath != "" {
		baseRouter = router.Group(cfg.Server.BasePath)
	} else {
		baseRouter = router
	}

	baseRouter.POST("/api/compose", composeHandler.HandleCompose)
	baseRouter.POST("/api/compose/async", composeHandler.HandleComposeAsync)
	baseRouter.GET("/api/jobs/:job_id", composeHandler.HandleJobStatus)
	baseRouter.GET("/api/jobs/:job_id/result", composeHandler.HandleJobResult)

	baseRouter.GET("/api/moods", moodsHandler.HandleMoods)

	baseRouter.GET("/api/metrics", metricsHandler.GetMetrics)
	baseRouter.POST("/api/metrics/reset", metricsHandler.ResetMetrics)
	baseRouter.GET("/api/health", metricsHandler.HealthCheck)

	return router
}
