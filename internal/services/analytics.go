package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/repos"
)

const monthsPerYear = 12

// Trend is the period-over-period change. Value is the absolute percentage;
// direction lives in IsPositive. A zero previous period always reads as
// {0, positive}, whatever the current period did.
type Trend struct {
	Value      float64 `json:"value"`
	IsPositive bool    `json:"is_positive"`
}

type RangeStats struct {
	Total int64 `json:"total"`
	Trend Trend `json:"trend"`
}

// AnalyticsService is the stateless query layer over counters, buckets and
// student timestamps, always scoped through the ownership graph. Reads are
// not isolated from concurrent increments; dashboards refresh.
type AnalyticsService interface {
	LifetimeTotal(ctx context.Context, operatorID uuid.UUID, metric domain.Metric) (int64, error)
	RangeWithTrend(ctx context.Context, operatorID uuid.UUID, metric domain.Metric, rng TrendRange) (RangeStats, error)
	MonthlySeries(ctx context.Context, operatorID uuid.UUID, metric domain.Metric, year int) ([]int64, error)
	Overview(ctx context.Context, operatorID uuid.UUID, rng TrendRange) (map[domain.Metric]RangeStats, error)
}

type analyticsService struct {
	db          *gorm.DB
	log         *logger.Logger
	ownership   OwnershipService
	courseRepo  repos.CourseRepo
	bucketRepo  repos.MetricBucketRepo
	studentRepo repos.StudentRepo
	now         func() time.Time
}

func NewAnalyticsService(db *gorm.DB, log *logger.Logger, ownership OwnershipService, courseRepo repos.CourseRepo, bucketRepo repos.MetricBucketRepo, studentRepo repos.StudentRepo) AnalyticsService {
	return &analyticsService{
		db:          db,
		log:         log.With("service", "AnalyticsService"),
		ownership:   ownership,
		courseRepo:  courseRepo,
		bucketRepo:  bucketRepo,
		studentRepo: studentRepo,
		now:         time.Now,
	}
}

func (s *analyticsService) LifetimeTotal(ctx context.Context, operatorID uuid.UUID, metric domain.Metric) (int64, error) {
	if !metric.Valid() {
		return 0, apierr.InvalidArgument("unknown_metric", fmt.Errorf("unknown metric %q", metric))
	}
	instIDs, err := s.ownership.InstitutionIDs(ctx, operatorID)
	if err != nil {
		return 0, err
	}
	if len(instIDs) == 0 {
		return 0, nil
	}
	if metric == domain.MetricLeads {
		return s.studentRepo.CountByInstitutionIDs(ctx, nil, instIDs)
	}
	return s.courseRepo.SumMetric(ctx, nil, instIDs, metric)
}

func (s *analyticsService) RangeWithTrend(ctx context.Context, operatorID uuid.UUID, metric domain.Metric, rng TrendRange) (RangeStats, error) {
	if !metric.Valid() {
		return RangeStats{}, apierr.InvalidArgument("unknown_metric", fmt.Errorf("unknown metric %q", metric))
	}
	instIDs, err := s.ownership.InstitutionIDs(ctx, operatorID)
	if err != nil {
		return RangeStats{}, err
	}
	if len(instIDs) == 0 {
		return RangeStats{Trend: computeTrend(0, 0)}, nil
	}

	now := s.now()
	current, err := s.rangeTotal(ctx, instIDs, metric, currentWindow(now, rng))
	if err != nil {
		return RangeStats{}, err
	}
	previous, err := s.rangeTotal(ctx, instIDs, metric, previousWindow(now, rng))
	if err != nil {
		return RangeStats{}, err
	}
	return RangeStats{Total: current, Trend: computeTrend(current, previous)}, nil
}

func (s *analyticsService) rangeTotal(ctx context.Context, instIDs []uuid.UUID, metric domain.Metric, w window) (int64, error) {
	// Leads deliberately bypass their bucket sequence: student account
	// creation is the authoritative signal for that metric's windows.
	if metric == domain.MetricLeads {
		return s.studentRepo.CountCreatedBetween(ctx, nil, instIDs, w.from, w.exclusiveEnd())
	}
	courseIDs, err := s.ownership.CourseIDs(ctx, instIDs)
	if err != nil {
		return 0, err
	}
	return s.bucketRepo.SumRange(ctx, nil, courseIDs, metric, w.fromDay(), w.toDay())
}

func (s *analyticsService) MonthlySeries(ctx context.Context, operatorID uuid.UUID, metric domain.Metric, year int) ([]int64, error) {
	if !metric.Valid() {
		return nil, apierr.InvalidArgument("unknown_metric", fmt.Errorf("unknown metric %q", metric))
	}
	series := make([]int64, monthsPerYear)
	instIDs, err := s.ownership.InstitutionIDs(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if len(instIDs) == 0 {
		return series, nil
	}

	var totals []repos.MonthTotal
	if metric == domain.MetricLeads {
		totals, err = s.studentRepo.CountByMonth(ctx, nil, instIDs, year)
	} else {
		var courseIDs []uuid.UUID
		courseIDs, err = s.ownership.CourseIDs(ctx, instIDs)
		if err == nil {
			totals, err = s.bucketRepo.SumByMonth(ctx, nil, courseIDs, metric, year)
		}
	}
	if err != nil {
		return nil, err
	}
	for _, mt := range totals {
		if mt.Month >= 1 && mt.Month <= monthsPerYear {
			series[mt.Month-1] = mt.Total
		}
	}
	return series, nil
}

func (s *analyticsService) Overview(ctx context.Context, operatorID uuid.UUID, rng TrendRange) (map[domain.Metric]RangeStats, error) {
	results := make([]RangeStats, len(domain.Metrics()))
	g, gctx := errgroup.WithContext(ctx)
	for i, metric := range domain.Metrics() {
		g.Go(func() error {
			stats, err := s.RangeWithTrend(gctx, operatorID, metric, rng)
			if err != nil {
				return err
			}
			results[i] = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[domain.Metric]RangeStats, len(results))
	for i, metric := range domain.Metrics() {
		out[metric] = results[i]
	}
	return out, nil
}

// computeTrend applies the zero-baseline policy: a previous period of zero
// yields {0, positive} rather than a divide-by-zero or an infinite
// percentage.
func computeTrend(current, previous int64) Trend {
	if previous == 0 {
		return Trend{Value: 0, IsPositive: true}
	}
	pct := float64(current-previous) / float64(previous) * 100
	return Trend{Value: math.Abs(pct), IsPositive: pct >= 0}
}
