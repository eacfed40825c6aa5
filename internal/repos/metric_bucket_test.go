package repos

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/repos/testutil"
)

func TestMetricBucketRepoTouch(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewMetricBucketRepo(db, testutil.Logger(t))

	op := testutil.SeedOperator(t, ctx, tx, "buckettouch@example.com")
	inst := testutil.SeedInstitution(t, ctx, tx, op.ID)
	c := testutil.SeedCourse(t, ctx, tx, inst.ID)

	if err := repo.Touch(ctx, tx, c.ID, domain.MetricViews, "2024-03-10"); err != nil {
		t.Fatalf("Touch first: %v", err)
	}
	if err := repo.Touch(ctx, tx, c.ID, domain.MetricViews, "2024-03-10"); err != nil {
		t.Fatalf("Touch second: %v", err)
	}
	if err := repo.Touch(ctx, tx, c.ID, domain.MetricViews, "2024-03-11"); err != nil {
		t.Fatalf("Touch next day: %v", err)
	}
	// Same day, different metric: its own bucket sequence.
	if err := repo.Touch(ctx, tx, c.ID, domain.MetricLeads, "2024-03-10"); err != nil {
		t.Fatalf("Touch leads: %v", err)
	}

	views, err := repo.GetByCourseIDs(ctx, tx, []uuid.UUID{c.ID}, domain.MetricViews)
	if err != nil || len(views) != 2 {
		t.Fatalf("GetByCourseIDs views: err=%v len=%d", err, len(views))
	}
	if views[0].Day != "2024-03-10" || views[0].Count != 2 {
		t.Fatalf("first bucket: day=%s count=%d", views[0].Day, views[0].Count)
	}
	if views[1].Day != "2024-03-11" || views[1].Count != 1 {
		t.Fatalf("second bucket: day=%s count=%d", views[1].Day, views[1].Count)
	}
}

func TestMetricBucketRepoSums(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewMetricBucketRepo(db, testutil.Logger(t))

	op := testutil.SeedOperator(t, ctx, tx, "bucketsums@example.com")
	inst := testutil.SeedInstitution(t, ctx, tx, op.ID)
	c := testutil.SeedCourse(t, ctx, tx, inst.ID)

	testutil.SeedBucket(t, ctx, tx, c.ID, domain.MetricViews, "2024-03-03", 7)
	testutil.SeedBucket(t, ctx, tx, c.ID, domain.MetricViews, "2024-03-04", 4)
	testutil.SeedBucket(t, ctx, tx, c.ID, domain.MetricViews, "2024-03-10", 5)
	testutil.SeedBucket(t, ctx, tx, c.ID, domain.MetricViews, "2024-03-11", 9)
	testutil.SeedBucket(t, ctx, tx, c.ID, domain.MetricViews, "2024-06-01", 2)
	testutil.SeedBucket(t, ctx, tx, c.ID, domain.MetricComparisons, "2024-03-05", 100)

	// Both bounds inclusive.
	total, err := repo.SumRange(ctx, tx, []uuid.UUID{c.ID}, domain.MetricViews, "2024-03-04", "2024-03-10")
	if err != nil || total != 9 {
		t.Fatalf("SumRange: total=%d err=%v", total, err)
	}
	total, err = repo.SumRange(ctx, tx, []uuid.UUID{c.ID}, domain.MetricViews, "2024-01-01", "2024-01-31")
	if err != nil || total != 0 {
		t.Fatalf("SumRange empty window: total=%d err=%v", total, err)
	}

	months, err := repo.SumByMonth(ctx, tx, []uuid.UUID{c.ID}, domain.MetricViews, 2024)
	if err != nil {
		t.Fatalf("SumByMonth: %v", err)
	}
	want := map[int]int64{3: 25, 6: 2}
	if len(months) != len(want) {
		t.Fatalf("SumByMonth rows: got %d want %d", len(months), len(want))
	}
	for _, mt := range months {
		if want[mt.Month] != mt.Total {
			t.Fatalf("SumByMonth month %d: got %d want %d", mt.Month, mt.Total, want[mt.Month])
		}
	}
}

// M concurrent touches on the same (course, metric, day) must land in one
// bucket holding M, not M buckets of one. The compound unique index plus the
// ON CONFLICT increment is what closes the first-event-of-day race.
func TestMetricBucketRepoTouchConcurrent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewMetricBucketRepo(db, testutil.Logger(t))

	op := testutil.SeedOperator(t, ctx, db, "bucketconc-"+uuid.NewString()[:8]+"@example.com")
	inst := testutil.SeedInstitution(t, ctx, db, op.ID)
	c := testutil.SeedCourse(t, ctx, db, inst.ID)
	t.Cleanup(func() {
		db.Unscoped().Where("course_id = ?", c.ID).Delete(&domain.MetricBucket{})
		db.Unscoped().Where("id = ?", c.ID).Delete(&domain.Course{})
		db.Unscoped().Where("id = ?", inst.ID).Delete(&domain.Institution{})
		db.Unscoped().Where("id = ?", op.ID).Delete(&domain.Operator{})
	})

	const day = "2024-03-10"
	const m = 30
	var wg sync.WaitGroup
	errs := make(chan error, m)
	for i := 0; i < m; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.Touch(ctx, nil, c.ID, domain.MetricViews, day); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent touch: %v", err)
	}

	buckets, err := repo.GetByCourseIDs(ctx, nil, []uuid.UUID{c.ID}, domain.MetricViews)
	if err != nil {
		t.Fatalf("GetByCourseIDs: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("buckets for one day: got %d want 1", len(buckets))
	}
	if buckets[0].Count != m {
		t.Fatalf("bucket count after %d concurrent touches: got %d", m, buckets[0].Count)
	}
}
