package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
)

type InstitutionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Institution) ([]*domain.Institution, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Institution, error)
	GetByOperatorIDs(ctx context.Context, tx *gorm.DB, operatorIDs []uuid.UUID) ([]*domain.Institution, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type institutionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInstitutionRepo(db *gorm.DB, baseLog *logger.Logger) InstitutionRepo {
	return &institutionRepo{db: db, log: baseLog.With("repo", "InstitutionRepo")}
}

func (r *institutionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Institution) ([]*domain.Institution, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Institution{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *institutionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Institution, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Institution
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *institutionRepo) GetByOperatorIDs(ctx context.Context, tx *gorm.DB, operatorIDs []uuid.UUID) ([]*domain.Institution, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Institution
	if len(operatorIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("operator_id IN ?", operatorIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *institutionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Institution{}).Error
}
