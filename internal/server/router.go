package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/coursora/coursora-backend/internal/handlers"
	"github.com/coursora/coursora-backend/internal/middleware"
	"github.com/coursora/coursora-backend/internal/platform/envutil"
)

type RouterConfig struct {
	AuthMiddleware     *middleware.AuthMiddleware
	MetricsHandler     *handlers.MetricsHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	InstitutionHandler *handlers.InstitutionHandler
	SSEHandler         *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("coursora-backend"))

	origins := strings.Split(envutil.Str("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireOperator())
	{
		// Ingress
		api.POST("/institutions/:institutionID/courses/:courseID/metrics", cfg.MetricsHandler.Increment)

		// Aggregates
		api.GET("/analytics/lifetime", cfg.AnalyticsHandler.Lifetime)
		api.GET("/analytics/trend", cfg.AnalyticsHandler.Trend)
		api.GET("/analytics/monthly", cfg.AnalyticsHandler.Monthly)
		api.GET("/analytics/overview", cfg.AnalyticsHandler.Overview)

		// Ownership reads
		api.GET("/institutions", cfg.InstitutionHandler.ListMine)
		api.GET("/institutions/:institutionID/courses", cfg.InstitutionHandler.ListCourses)

		// Live updates
		api.GET("/sse/stream", cfg.SSEHandler.SSEStream)
		api.POST("/sse/subscribe", cfg.SSEHandler.SSESubscribe)
		api.POST("/sse/unsubscribe", cfg.SSEHandler.SSEUnsubscribe)
	}

	return router
}
