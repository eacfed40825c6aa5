package realtime

import "github.com/google/uuid"

type SSEEvent string

const (
	// SSEEventMetricIncremented goes to institution channels after each
	// accepted increment and carries the triggering course's fresh counter
	// plus the recomputed per-institution total.
	SSEEventMetricIncremented SSEEvent = "MetricIncremented"

	// SSEEventOperatorTotalUpdated goes to operator channels and carries the
	// cross-institution lifetime total for the incremented metric.
	SSEEventOperatorTotalUpdated SSEEvent = "OperatorTotalUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

func InstitutionChannel(id uuid.UUID) string {
	return "institution:" + id.String()
}

func OperatorChannel(id uuid.UUID) string {
	return "operator:" + id.String()
}
