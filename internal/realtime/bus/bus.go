package bus

import (
	"context"

	"github.com/coursora/coursora-backend/internal/realtime"
)

// Bus fans metric notifications out across processes. Publish failures are
// the caller's to log; nothing in the increment path waits on them.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
