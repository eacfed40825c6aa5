package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/platform/logger"
)

type SSEClient struct {
	ID         uuid.UUID
	OperatorID uuid.UUID
	Channels   map[string]bool
	Outbound   chan SSEMessage
	done       chan struct{}
	closeOnce  sync.Once
	Logger     *logger.Logger
}
