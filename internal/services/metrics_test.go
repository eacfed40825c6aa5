package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/repos"
)

type recordingNotifier struct {
	called chan int64
}

func (n *recordingNotifier) MetricIncremented(ctx context.Context, institutionID, courseID uuid.UUID, metric domain.Metric, newCount int64) {
	n.called <- newCount
}

type failingRollup struct {
	called chan string
}

func (r *failingRollup) Touch(ctx context.Context, courseID uuid.UUID, metric domain.Metric, day string) error {
	r.called <- day
	return errors.New("bucket store down")
}

func newMetricsForTest(t *testing.T, courses repos.CourseRepo, rollup RollupService, notifier MetricsNotifier, now time.Time) MetricsService {
	t.Helper()
	svc := NewMetricsService(nil, testLogger(t), courses, rollup, notifier)
	svc.(*metricsService).now = func() time.Time { return now }
	return svc
}

// The counter write is the operation; bucket and notification failures stay
// invisible to the caller.
func TestMetricsIncrementSurvivesSecondaryFailures(t *testing.T) {
	rollup := &failingRollup{called: make(chan string, 1)}
	notifier := &recordingNotifier{called: make(chan int64, 1)}
	courses := &fakeCourseRepo{incrementCount: 7}
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	svc := newMetricsForTest(t, courses, rollup, notifier, now)
	count, err := svc.Increment(context.Background(), uuid.New(), uuid.New(), domain.MetricViews)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if count != 7 {
		t.Fatalf("count: got %d want 7", count)
	}

	select {
	case day := <-rollup.called:
		if day != "2024-03-10" {
			t.Fatalf("bucket day: got %s want 2024-03-10", day)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("rollup never dispatched")
	}
	select {
	case n := <-notifier.called:
		if n != 7 {
			t.Fatalf("notified count: got %d want 7", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("notifier never dispatched")
	}
}

func TestMetricsIncrementCourseNotFound(t *testing.T) {
	rollup := &failingRollup{called: make(chan string, 1)}
	notifier := &recordingNotifier{called: make(chan int64, 1)}
	courses := &fakeCourseRepo{incrementErr: repos.ErrNotFound}

	svc := newMetricsForTest(t, courses, rollup, notifier, time.Now())
	_, err := svc.Increment(context.Background(), uuid.New(), uuid.New(), domain.MetricLeads)
	if err == nil {
		t.Fatalf("Increment succeeded for missing course")
	}
	if apierr.StatusOf(err) != 404 {
		t.Fatalf("status: got %d want 404", apierr.StatusOf(err))
	}
	select {
	case <-rollup.called:
		t.Fatalf("rollup dispatched after failed increment")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMetricsIncrementUnknownMetric(t *testing.T) {
	svc := newMetricsForTest(t, &fakeCourseRepo{}, &failingRollup{called: make(chan string, 1)}, &recordingNotifier{called: make(chan int64, 1)}, time.Now())
	_, err := svc.Increment(context.Background(), uuid.New(), uuid.New(), domain.Metric("downloads"))
	if err == nil {
		t.Fatalf("Increment accepted unknown metric")
	}
	if apierr.StatusOf(err) != 400 {
		t.Fatalf("status: got %d want 400", apierr.StatusOf(err))
	}
}
