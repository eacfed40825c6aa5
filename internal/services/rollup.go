package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/repos"
)

// RollupService maintains the day-bucketed rollups behind trend and series
// queries. It runs after the counter write has already succeeded; its errors
// are logged by the dispatcher and never reach the increment caller.
type RollupService interface {
	Touch(ctx context.Context, courseID uuid.UUID, metric domain.Metric, day string) error
}

type rollupService struct {
	db         *gorm.DB
	log        *logger.Logger
	bucketRepo repos.MetricBucketRepo
}

func NewRollupService(db *gorm.DB, log *logger.Logger, bucketRepo repos.MetricBucketRepo) RollupService {
	return &rollupService{
		db:         db,
		log:        log.With("service", "RollupService"),
		bucketRepo: bucketRepo,
	}
}

func (s *rollupService) Touch(ctx context.Context, courseID uuid.UUID, metric domain.Metric, day string) error {
	return s.bucketRepo.Touch(ctx, nil, courseID, metric, day)
}
