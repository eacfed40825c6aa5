package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
)

type OperatorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*domain.Operator) ([]*domain.Operator, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Operator, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*domain.Operator, error)
}

type operatorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOperatorRepo(db *gorm.DB, baseLog *logger.Logger) OperatorRepo {
	return &operatorRepo{db: db, log: baseLog.With("repo", "OperatorRepo")}
}

func (r *operatorRepo) Create(ctx context.Context, tx *gorm.DB, rows []*domain.Operator) ([]*domain.Operator, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*domain.Operator{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *operatorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Operator, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Operator
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *operatorRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*domain.Operator, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out domain.Operator
	err := t.WithContext(ctx).Where("email = ?", email).First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
