package app

import (
	"github.com/coursora/coursora-backend/internal/handlers"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime"
)

type Handlers struct {
	Metrics     *handlers.MetricsHandler
	Analytics   *handlers.AnalyticsHandler
	Institution *handlers.InstitutionHandler
	SSE         *handlers.SSEHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Metrics:     handlers.NewMetricsHandler(log, services.Metrics),
		Analytics:   handlers.NewAnalyticsHandler(log, services.Analytics),
		Institution: handlers.NewInstitutionHandler(log, services.Ownership),
		SSE:         handlers.NewSSEHandler(log, hub, services.Ownership),
	}
}
