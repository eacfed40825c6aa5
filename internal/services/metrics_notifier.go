package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime"
	"github.com/coursora/coursora-backend/internal/repos"
)

// MetricsNotifier fans a completed increment out to two subscriber scopes:
// the owning institution and the operator's cross-institution total. Fire and
// forget; failures are logged and the two messages are independent, with no
// ordering guarantee between them.
type MetricsNotifier interface {
	MetricIncremented(ctx context.Context, institutionID, courseID uuid.UUID, metric domain.Metric, newCount int64)
}

type metricsNotifier struct {
	log             *logger.Logger
	emit            SSEEmitter
	institutionRepo repos.InstitutionRepo
	courseRepo      repos.CourseRepo
	studentRepo     repos.StudentRepo
	ownership       OwnershipService
}

func NewMetricsNotifier(log *logger.Logger, emit SSEEmitter, institutionRepo repos.InstitutionRepo, courseRepo repos.CourseRepo, studentRepo repos.StudentRepo, ownership OwnershipService) MetricsNotifier {
	return &metricsNotifier{
		log:             log.With("service", "MetricsNotifier"),
		emit:            emit,
		institutionRepo: institutionRepo,
		courseRepo:      courseRepo,
		studentRepo:     studentRepo,
		ownership:       ownership,
	}
}

// scopeTotal mirrors the dashboard's lifetime read: leads come from student
// account counts, everything else from the course counter columns, so pushed
// totals never drift from what a refresh would show.
func (n *metricsNotifier) scopeTotal(ctx context.Context, institutionIDs []uuid.UUID, metric domain.Metric) (int64, error) {
	if metric == domain.MetricLeads {
		return n.studentRepo.CountByInstitutionIDs(ctx, nil, institutionIDs)
	}
	return n.courseRepo.SumMetric(ctx, nil, institutionIDs, metric)
}

func (n *metricsNotifier) MetricIncremented(ctx context.Context, institutionID, courseID uuid.UUID, metric domain.Metric, newCount int64) {
	if n == nil || n.emit == nil || institutionID == uuid.Nil {
		return
	}

	insts, err := n.institutionRepo.GetByIDs(ctx, nil, []uuid.UUID{institutionID})
	if err != nil || len(insts) == 0 {
		n.log.Warn("notify skipped; institution lookup failed", "institution_id", institutionID, "error", err)
		return
	}
	operatorID := insts[0].OperatorID

	if instTotal, err := n.scopeTotal(ctx, []uuid.UUID{institutionID}, metric); err != nil {
		n.log.Warn("institution notification skipped", "institution_id", institutionID, "metric", metric, "error", err)
	} else {
		n.emit.Emit(ctx, realtime.SSEMessage{
			Channel: realtime.InstitutionChannel(institutionID),
			Event:   realtime.SSEEventMetricIncremented,
			Data: map[string]any{
				"institution_id":    institutionID,
				"course_id":         courseID,
				"metric":            metric,
				"new_count":         newCount,
				"institution_total": instTotal,
			},
		})
	}

	instIDs, err := n.ownership.InstitutionIDs(ctx, operatorID)
	if err != nil {
		n.log.Warn("operator notification skipped", "operator_id", operatorID, "metric", metric, "error", err)
		return
	}
	opTotal, err := n.scopeTotal(ctx, instIDs, metric)
	if err != nil {
		n.log.Warn("operator notification skipped", "operator_id", operatorID, "metric", metric, "error", err)
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.OperatorChannel(operatorID),
		Event:   realtime.SSEEventOperatorTotalUpdated,
		Data: map[string]any{
			"operator_id": operatorID,
			"metric":      metric,
			"total":       opTotal,
		},
	})
}
