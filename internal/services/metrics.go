package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/repos"
)

// secondaryWriteTimeout bounds the detached bucket and notification work so
// an unhealthy dependency cannot pile up goroutines forever.
const secondaryWriteTimeout = 10 * time.Second

// MetricsService is the ingress for usage events. The counter increment is
// the only correctness-critical step; the bucket rollup and live
// notification run detached after it and cannot change the outcome.
type MetricsService interface {
	Increment(ctx context.Context, courseID, institutionID uuid.UUID, metric domain.Metric) (int64, error)
}

type metricsService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	rollup     RollupService
	notifier   MetricsNotifier
	now        func() time.Time
}

func NewMetricsService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, rollup RollupService, notifier MetricsNotifier) MetricsService {
	return &metricsService{
		db:         db,
		log:        log.With("service", "MetricsService"),
		courseRepo: courseRepo,
		rollup:     rollup,
		notifier:   notifier,
		now:        time.Now,
	}
}

func (s *metricsService) Increment(ctx context.Context, courseID, institutionID uuid.UUID, metric domain.Metric) (int64, error) {
	if !metric.Valid() {
		return 0, apierr.InvalidArgument("unknown_metric", fmt.Errorf("unknown metric %q", metric))
	}

	newCount, err := s.courseRepo.IncrementMetric(ctx, nil, courseID, institutionID, metric)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return 0, apierr.NotFound("course_not_found", fmt.Errorf("course %s not found under institution %s", courseID, institutionID))
		}
		return 0, err
	}

	day := domain.DayKey(s.now())
	s.dispatch(func(ctx context.Context) {
		if err := s.rollup.Touch(ctx, courseID, metric, day); err != nil {
			s.log.Warn("rollup bucket write failed", "course_id", courseID, "metric", metric, "day", day, "error", err)
		}
	})
	s.dispatch(func(ctx context.Context) {
		s.notifier.MetricIncremented(ctx, institutionID, courseID, metric, newCount)
	})

	return newCount, nil
}

// dispatch runs fn detached from the request: its own context, its own
// deadline, no result observed by the caller.
func (s *metricsService) dispatch(fn func(ctx context.Context)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), secondaryWriteTimeout)
		defer cancel()
		fn(ctx)
	}()
}
