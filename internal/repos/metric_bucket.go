package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
)

type MetricBucketRepo interface {
	// Touch increments the (course, metric, day) bucket, creating it with
	// count 1 when absent. The whole operation is one INSERT ... ON CONFLICT
	// against the compound unique index, so concurrent first-of-day callers
	// cannot produce duplicate buckets or lost counts.
	Touch(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, metric domain.Metric, day string) error

	GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric) ([]*domain.MetricBucket, error)

	// SumRange totals bucket counts for day keys in [fromDay, toDay],
	// inclusive on both ends.
	SumRange(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric, fromDay, toDay string) (int64, error)

	// SumByMonth totals bucket counts per calendar month of year. Months with
	// no buckets are absent from the result.
	SumByMonth(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric, year int) ([]MonthTotal, error)
}

type metricBucketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMetricBucketRepo(db *gorm.DB, baseLog *logger.Logger) MetricBucketRepo {
	return &metricBucketRepo{db: db, log: baseLog.With("repo", "MetricBucketRepo")}
}

func (r *metricBucketRepo) Touch(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, metric domain.Metric, day string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil || !metric.Valid() || day == "" {
		return nil
	}
	now := time.Now().UTC()
	row := &domain.MetricBucket{
		ID:        uuid.New(),
		CourseID:  courseID,
		Metric:    metric,
		Day:       day,
		Count:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "metric"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("metric_bucket.count + 1"),
				"updated_at": now,
			}),
		}).
		Create(row).Error
}

func (r *metricBucketRepo) GetByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric) ([]*domain.MetricBucket, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.MetricBucket
	if len(courseIDs) == 0 {
		return out, nil
	}
	q := t.WithContext(ctx).Where("course_id IN ?", courseIDs)
	if metric.Valid() {
		q = q.Where("metric = ?", metric)
	}
	if err := q.Order("day ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *metricBucketRepo) SumRange(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric, fromDay, toDay string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(courseIDs) == 0 || !metric.Valid() {
		return 0, nil
	}
	var total int64
	if err := t.WithContext(ctx).
		Model(&domain.MetricBucket{}).
		Select("COALESCE(SUM(count), 0)").
		Where("course_id IN ? AND metric = ? AND day >= ? AND day <= ?", courseIDs, metric, fromDay, toDay).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *metricBucketRepo) SumByMonth(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID, metric domain.Metric, year int) ([]MonthTotal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []MonthTotal
	if len(courseIDs) == 0 || !metric.Valid() {
		return out, nil
	}
	// Day keys are "YYYY-MM-DD", so the month is a fixed substring.
	yearPrefix := fmt.Sprintf("%04d-%%", year)
	if err := t.WithContext(ctx).
		Model(&domain.MetricBucket{}).
		Select("CAST(SUBSTRING(day FROM 6 FOR 2) AS INT) AS month, SUM(count) AS total").
		Where("course_id IN ? AND metric = ? AND day LIKE ?", courseIDs, metric, yearPrefix).
		Group("month").
		Order("month ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
