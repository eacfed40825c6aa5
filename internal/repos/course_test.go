package repos

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/repos/testutil"
)

func TestCourseRepoIncrementMetric(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	op := testutil.SeedOperator(t, ctx, tx, "courserepo@example.com")
	inst := testutil.SeedInstitution(t, ctx, tx, op.ID)
	c := testutil.SeedCourse(t, ctx, tx, inst.ID)

	got, err := repo.IncrementMetric(ctx, tx, c.ID, inst.ID, domain.MetricViews)
	if err != nil || got != 1 {
		t.Fatalf("IncrementMetric first: got=%d err=%v", got, err)
	}
	got, err = repo.IncrementMetric(ctx, tx, c.ID, inst.ID, domain.MetricViews)
	if err != nil || got != 2 {
		t.Fatalf("IncrementMetric second: got=%d err=%v", got, err)
	}

	// Counters are independent per metric kind.
	got, err = repo.IncrementMetric(ctx, tx, c.ID, inst.ID, domain.MetricComparisons)
	if err != nil || got != 1 {
		t.Fatalf("IncrementMetric comparisons: got=%d err=%v", got, err)
	}

	otherInst := testutil.SeedInstitution(t, ctx, tx, op.ID)
	if _, err := repo.IncrementMetric(ctx, tx, c.ID, otherInst.ID, domain.MetricViews); !errors.Is(err, ErrNotFound) {
		t.Fatalf("IncrementMetric institution mismatch: want ErrNotFound got %v", err)
	}
	if _, err := repo.IncrementMetric(ctx, tx, uuid.New(), inst.ID, domain.MetricViews); !errors.Is(err, ErrNotFound) {
		t.Fatalf("IncrementMetric unknown course: want ErrNotFound got %v", err)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ViewCount != 2 || rows[0].ComparisonCount != 1 || rows[0].LeadCount != 0 {
		t.Fatalf("counters: views=%d comparisons=%d leads=%d", rows[0].ViewCount, rows[0].ComparisonCount, rows[0].LeadCount)
	}
}

func TestCourseRepoSumMetric(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	op := testutil.SeedOperator(t, ctx, tx, "coursesum@example.com")
	instA := testutil.SeedInstitution(t, ctx, tx, op.ID)
	instB := testutil.SeedInstitution(t, ctx, tx, op.ID)
	cA := testutil.SeedCourse(t, ctx, tx, instA.ID)
	cB := testutil.SeedCourse(t, ctx, tx, instB.ID)

	for i := 0; i < 3; i++ {
		if _, err := repo.IncrementMetric(ctx, tx, cA.ID, instA.ID, domain.MetricViews); err != nil {
			t.Fatalf("increment A: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := repo.IncrementMetric(ctx, tx, cB.ID, instB.ID, domain.MetricViews); err != nil {
			t.Fatalf("increment B: %v", err)
		}
	}

	if total, err := repo.SumMetric(ctx, tx, []uuid.UUID{instA.ID}, domain.MetricViews); err != nil || total != 3 {
		t.Fatalf("SumMetric instA: total=%d err=%v", total, err)
	}
	if total, err := repo.SumMetric(ctx, tx, []uuid.UUID{instA.ID, instB.ID}, domain.MetricViews); err != nil || total != 5 {
		t.Fatalf("SumMetric both: total=%d err=%v", total, err)
	}
	if total, err := repo.SumMetric(ctx, tx, nil, domain.MetricViews); err != nil || total != 0 {
		t.Fatalf("SumMetric empty: total=%d err=%v", total, err)
	}
}

// After N concurrent increments the counter must be exactly N; a
// read-modify-write pair would lose updates here.
func TestCourseRepoIncrementMetricConcurrent(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	op := testutil.SeedOperator(t, ctx, db, "courseconc-"+uuid.NewString()[:8]+"@example.com")
	inst := testutil.SeedInstitution(t, ctx, db, op.ID)
	c := testutil.SeedCourse(t, ctx, db, inst.ID)
	t.Cleanup(func() {
		db.Unscoped().Where("id = ?", c.ID).Delete(&domain.Course{})
		db.Unscoped().Where("id = ?", inst.ID).Delete(&domain.Institution{})
		db.Unscoped().Where("id = ?", op.ID).Delete(&domain.Operator{})
	})

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementMetric(ctx, nil, c.ID, inst.ID, domain.MetricViews); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent increment: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, nil, []uuid.UUID{c.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows[0].ViewCount != n {
		t.Fatalf("view_count after %d concurrent increments: got %d", n, rows[0].ViewCount)
	}
}
