package app

import (
	"os"
	"strings"

	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime/bus"
)

type Clients struct {
	Bus bus.Bus
}

// wireClients connects optional external transports. A missing REDIS_ADDR is
// a valid single-instance deployment: notifications then stay in-process via
// the hub.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var metricsBus bus.Bus
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		b, err := bus.NewRedisBus(log)
		if err != nil {
			log.Warn("Redis bus unavailable; falling back to in-process notifications", "error", err)
		} else {
			metricsBus = b
		}
	} else {
		log.Info("REDIS_ADDR not set; notifications stay in-process")
	}

	return Clients{Bus: metricsBus}
}
