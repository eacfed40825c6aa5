package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
)

// StudentRepo is the read model behind every leads aggregate: student account
// creation timestamps stand in for lead rollup buckets.
type StudentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Student) ([]*domain.Student, error)
	GetByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]*domain.Student, error)

	CountByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) (int64, error)

	// CountCreatedBetween counts students created in [from, to); callers pass
	// to as the exclusive end of the window.
	CountCreatedBetween(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, from, to time.Time) (int64, error)

	CountByMonth(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, year int) ([]MonthTotal, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{db: db, log: baseLog.With("repo", "StudentRepo")}
}

func (r *studentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Student) ([]*domain.Student, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Student{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentRepo) GetByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) ([]*domain.Student, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Student
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

func (r *studentRepo) CountByInstitutionIDs(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(institutionIDs) == 0 {
		return 0, nil
	}
	var total int64
	if err := t.WithContext(ctx).
		Model(&domain.Student{}).
		Where("institution_id IN ?", institutionIDs).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *studentRepo) CountCreatedBetween(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, from, to time.Time) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(institutionIDs) == 0 {
		return 0, nil
	}
	var total int64
	if err := t.WithContext(ctx).
		Model(&domain.Student{}).
		Where("institution_id IN ? AND created_at >= ? AND created_at < ?", institutionIDs, from, to).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *studentRepo) CountByMonth(ctx context.Context, tx *gorm.DB, institutionIDs []uuid.UUID, year int) ([]MonthTotal, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []MonthTotal
	if len(institutionIDs) == 0 {
		return out, nil
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	if err := t.WithContext(ctx).
		Model(&domain.Student{}).
		Select("CAST(EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC') AS INT) AS month, COUNT(*) AS total").
		Where("institution_id IN ? AND created_at >= ? AND created_at < ?", institutionIDs, from, to).
		Group("month").
		Order("month ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
