package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Course) ([]*domain.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Course, error)
	GetByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]*domain.Course, error)
	IDsByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]uuid.UUID, error)

	// IncrementMetric bumps metric's cumulative counter on the course by one
	// in a single UPDATE guarded by institution ownership, and returns the
	// fresh value. ErrNotFound when no (course, institution) row matched.
	IncrementMetric(ctx context.Context, tx *gorm.DB, courseID, institutionID uuid.UUID, metric domain.Metric) (int64, error)

	// SumMetric totals metric's cumulative counter over every course of the
	// given institutions. Empty input sums to zero.
	SumMetric(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, metric domain.Metric) (int64, error)

	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Course) ([]*domain.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Course{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) GetByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]*domain.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Course
	if len(institutionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("institution_id IN ?", institutionIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) IDsByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if len(institutionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&domain.Course{}).
		Where("institution_id IN ?", institutionIDs).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) IncrementMetric(ctx context.Context, tx *gorm.DB, courseID, institutionID uuid.UUID, metric domain.Metric) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if !metric.Valid() {
		return 0, ErrNotFound
	}
	col := metric.CounterColumn()

	var course domain.Course
	res := t.WithContext(ctx).
		Model(&course).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: col}}}).
		Where("id = ? AND institution_id = ?", courseID, institutionID).
		Update(col, gorm.Expr(col+" + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return metric.CounterOf(&course), nil
}

func (r *courseRepo) SumMetric(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, metric domain.Metric) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(institutionIDs) == 0 || !metric.Valid() {
		return 0, nil
	}
	var total int64
	if err := t.WithContext(ctx).
		Model(&domain.Course{}).
		Select("COALESCE(SUM(" + metric.CounterColumn() + "), 0)").
		Where("institution_id IN ?", institutionIDs).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *courseRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Course{}).Error
}
