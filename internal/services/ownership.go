package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
	"github.com/coursora/coursora-backend/internal/platform/apierr"
	"github.com/coursora/coursora-backend/internal/platform/logger"
	"github.com/coursora/coursora-backend/internal/repos"
)

// OwnershipService resolves the Operator -> Institution -> Course containment
// graph. Pure reads; an operator owning nothing yields empty sets, never an
// error, and every aggregate downstream treats empty as zero.
type OwnershipService interface {
	InstitutionIDs(ctx context.Context, operatorID uuid.UUID) ([]uuid.UUID, error)
	CourseIDs(ctx context.Context, institutionIDs []uuid.UUID) ([]uuid.UUID, error)

	Institutions(ctx context.Context, operatorID uuid.UUID) ([]*domain.Institution, error)
	InstitutionCourses(ctx context.Context, operatorID, institutionID uuid.UUID) ([]*domain.Course, error)
}

type ownershipService struct {
	db              *gorm.DB
	log             *logger.Logger
	institutionRepo repos.InstitutionRepo
	courseRepo      repos.CourseRepo
}

func NewOwnershipService(db *gorm.DB, log *logger.Logger, institutionRepo repos.InstitutionRepo, courseRepo repos.CourseRepo) OwnershipService {
	return &ownershipService{
		db:              db,
		log:             log.With("service", "OwnershipService"),
		institutionRepo: institutionRepo,
		courseRepo:      courseRepo,
	}
}

func (s *ownershipService) InstitutionIDs(ctx context.Context, operatorID uuid.UUID) ([]uuid.UUID, error) {
	insts, err := s.institutionRepo.GetByOperatorIDs(ctx, nil, []uuid.UUID{operatorID})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(insts))
	for _, inst := range insts {
		ids = append(ids, inst.ID)
	}
	return ids, nil
}

func (s *ownershipService) CourseIDs(ctx context.Context, institutionIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(institutionIDs) == 0 {
		return []uuid.UUID{}, nil
	}
	return s.courseRepo.IDsByInstitutionIDs(ctx, nil, institutionIDs)
}

func (s *ownershipService) Institutions(ctx context.Context, operatorID uuid.UUID) ([]*domain.Institution, error) {
	return s.institutionRepo.GetByOperatorIDs(ctx, nil, []uuid.UUID{operatorID})
}

func (s *ownershipService) InstitutionCourses(ctx context.Context, operatorID, institutionID uuid.UUID) ([]*domain.Course, error) {
	insts, err := s.institutionRepo.GetByIDs(ctx, nil, []uuid.UUID{institutionID})
	if err != nil {
		return nil, err
	}
	if len(insts) == 0 || insts[0].OperatorID != operatorID {
		return nil, apierr.NotFound("institution_not_found", fmt.Errorf("institution %s not owned by operator", institutionID))
	}
	return s.courseRepo.GetByInstitutionIDs(ctx, nil, []uuid.UUID{institutionID})
}
