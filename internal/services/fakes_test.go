package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/realtime"
	"github.com/coursora/coursora-backend/internal/repos"
)

func testLogger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("dev")
	if err != nil {
		tb.Fatalf("logger: %v", err)
	}
	return log
}

// fakeOwnership serves a fixed operator -> institutions -> courses graph.
type fakeOwnership struct {
	institutions map[uuid.UUID][]uuid.UUID
	courses      map[uuid.UUID][]uuid.UUID
	err          error
}

func (f *fakeOwnership) InstitutionIDs(ctx context.Context, operatorID uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.institutions[operatorID], nil
}

func (f *fakeOwnership) CourseIDs(ctx context.Context, institutionIDs []uuid.UUID) ([]uuid.UUID, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []uuid.UUID
	for _, id := range institutionIDs {
		out = append(out, f.courses[id]...)
	}
	return out, nil
}

func (f *fakeOwnership) Institutions(ctx context.Context, operatorID uuid.UUID) ([]*domain.Institution, error) {
	return nil, f.err
}

func (f *fakeOwnership) InstitutionCourses(ctx context.Context, operatorID, institutionID uuid.UUID) ([]*domain.Course, error) {
	return nil, f.err
}

// fakeCourseRepo overrides only what the services under test reach for; the
// embedded nil interface makes any other call an explicit test failure.
type fakeCourseRepo struct {
	repos.CourseRepo

	incrementErr   error
	incrementCount int64
	incremented    []domain.Metric

	// counter totals per institution, summed across the queried set
	totals map[uuid.UUID]map[domain.Metric]int64
	sumErr map[domain.Metric]error
}

func (f *fakeCourseRepo) IncrementMetric(ctx context.Context, tx *gorm.DB, courseID, institutionID uuid.UUID, metric domain.Metric) (int64, error) {
	if f.incrementErr != nil {
		return 0, f.incrementErr
	}
	f.incremented = append(f.incremented, metric)
	return f.incrementCount, nil
}

func (f *fakeCourseRepo) SumMetric(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, metric domain.Metric) (int64, error) {
	if err := f.sumErr[metric]; err != nil {
		return 0, err
	}
	var total int64
	for _, id := range institutionIDs {
		total += f.totals[id][metric]
	}
	return total, nil
}

type fakeBucketRepo struct {
	repos.MetricBucketRepo

	touchErr error
	touched  chan touchCall

	rangeTotals map[string]int64 // keyed by fromDay
	monthTotals []repos.MonthTotal
}

type touchCall struct {
	courseID uuid.UUID
	metric   domain.Metric
	day      string
}

func (f *fakeBucketRepo) Touch(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, metric domain.Metric, day string) error {
	if f.touched != nil {
		f.touched <- touchCall{courseID: courseID, metric: metric, day: day}
	}
	return f.touchErr
}

func (f *fakeBucketRepo) SumRange(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric, fromDay, toDay string) (int64, error) {
	return f.rangeTotals[fromDay], nil
}

func (f *fakeBucketRepo) SumByMonth(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric, year int) ([]repos.MonthTotal, error) {
	return f.monthTotals, nil
}

type fakeStudentRepo struct {
	repos.StudentRepo

	lifetime    int64
	counts      map[uuid.UUID]int64 // per-institution; overrides lifetime when set
	rangeTotals map[string]int64    // keyed by the inclusive from day
	lastFrom    time.Time
	lastTo      time.Time
	monthTotals []repos.MonthTotal
}

func (f *fakeStudentRepo) CountByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) (int64, error) {
	if f.counts == nil {
		return f.lifetime, nil
	}
	var total int64
	for _, id := range institutionIDs {
		total += f.counts[id]
	}
	return total, nil
}

func (f *fakeStudentRepo) CountCreatedBetween(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, from, to time.Time) (int64, error) {
	f.lastFrom, f.lastTo = from, to
	return f.rangeTotals[domain.DayKey(from)], nil
}

func (f *fakeStudentRepo) CountByMonth(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, year int) ([]repos.MonthTotal, error) {
	return f.monthTotals, nil
}

type fakeInstitutionRepo struct {
	repos.InstitutionRepo

	byID       map[uuid.UUID]*domain.Institution
	byOperator map[uuid.UUID][]*domain.Institution
	getErr     error
}

func (f *fakeInstitutionRepo) GetByOperatorIDs(ctx context.Context, tx *gorm.DB, operatorIDs []uuid.UUID) ([]*domain.Institution, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*domain.Institution
	for _, id := range operatorIDs {
		out = append(out, f.byOperator[id]...)
	}
	return out, nil
}

func (f *fakeInstitutionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Institution, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*domain.Institution
	for _, id := range ids {
		if inst, ok := f.byID[id]; ok {
			out = append(out, inst)
		}
	}
	return out, nil
}

// captureEmitter records every emitted message.
type captureEmitter struct {
	mu       sync.Mutex
	messages []realtime.SSEMessage
}

func (e *captureEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, msg)
}

func (e *captureEmitter) all() []realtime.SSEMessage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]realtime.SSEMessage, len(e.messages))
	copy(out, e.messages)
	return out
}
