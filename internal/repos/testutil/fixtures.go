package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/coursora/coursora-backend/internal/domain"
)

func SeedOperator(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.Operator {
	tb.Helper()
	op := &domain.Operator{
		ID:    uuid.New(),
		Email: email,
		Name:  "Operator",
	}
	if err := tx.WithContext(ctx).Create(op).Error; err != nil {
		tb.Fatalf("seed operator: %v", err)
	}
	return op
}

func SeedInstitution(tb testing.TB, ctx context.Context, tx *gorm.DB, operatorID uuid.UUID) *domain.Institution {
	tb.Helper()
	inst := &domain.Institution{
		ID:         uuid.New(),
		OperatorID: operatorID,
		Name:       "Institution",
		Slug:       "institution-" + uuid.NewString()[:8],
		Metadata:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(inst).Error; err != nil {
		tb.Fatalf("seed institution: %v", err)
	}
	return inst
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, institutionID uuid.UUID) *domain.Course {
	tb.Helper()
	c := &domain.Course{
		ID:            uuid.New(),
		InstitutionID: institutionID,
		Title:         "Course",
		Slug:          "course-" + uuid.NewString()[:8],
		Metadata:      datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, institutionID uuid.UUID, createdAt time.Time) *domain.Student {
	tb.Helper()
	s := &domain.Student{
		ID:            uuid.New(),
		InstitutionID: institutionID,
		Email:         fmt.Sprintf("student-%s@example.com", uuid.NewString()[:8]),
		Name:          "Student",
		CreatedAt:     createdAt,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedBucket(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, metric domain.Metric, day string, count int64) *domain.MetricBucket {
	tb.Helper()
	now := time.Now().UTC()
	b := &domain.MetricBucket{
		ID:        uuid.New(),
		CourseID:  courseID,
		Metric:    metric,
		Day:       day,
		Count:     count,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed bucket: %v", err)
	}
	return b
}
