package app

import (
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime"
	"github.com/coursora/coursora-backend/internal/services"
)

type Services struct {
	Ownership services.OwnershipService
	Rollup    services.RollupService
	Notifier  services.MetricsNotifier
	Metrics   services.MetricsService
	Analytics services.AnalyticsService
	Emitter   services.SSEEmitter
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, clients Clients, hub *realtime.SSEHub) Services {
	log.Info("Wiring services...")

	var emitter services.SSEEmitter
	switch {
	case clients.Bus != nil:
		emitter = &services.RedisEmitter{Bus: clients.Bus, Log: log}
	case hub != nil:
		emitter = &services.HubEmitter{Hub: hub}
	default:
		emitter = services.NopEmitter{}
	}

	ownership := services.NewOwnershipService(db, log, reposet.Institution, reposet.Course)
	rollup := services.NewRollupService(db, log, reposet.MetricBucket)
	notifier := services.NewMetricsNotifier(log, emitter, reposet.Institution, reposet.Course, reposet.Student, ownership)
	metrics := services.NewMetricsService(db, log, reposet.Course, rollup, notifier)
	analytics := services.NewAnalyticsService(db, log, ownership, reposet.Course, reposet.MetricBucket, reposet.Student)

	return Services{
		Ownership: ownership,
		Rollup:    rollup,
		Notifier:  notifier,
		Metrics:   metrics,
		Analytics: analytics,
		Emitter:   emitter,
	}
}
