package app

import (
	"github.com/gin-gonic/gin"

	"github.com/coursora/coursora-backend/internal/server"
)

func wireRouter(handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AuthMiddleware:     middleware.Auth,
		MetricsHandler:     handlers.Metrics,
		AnalyticsHandler:   handlers.Analytics,
		InstitutionHandler: handlers.Institution,
		SSEHandler:         handlers.SSE,
	})
}
