package services

import (
	"context"

	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime"
	"github.com/coursora/coursora-backend/internal/realtime/bus"
)

// SSEEmitter is the notifier's explicit publish dependency. Implementations
// never fail the caller; delivery is best effort.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type RedisEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("metric notification publish failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

// NopEmitter stands in when no pub/sub transport is configured; notification
// is skipped, not erred.
type NopEmitter struct{}

func (NopEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {}
