package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course carries the three cumulative usage counters. The counter columns are
// mutated only by the metric-increment path, as a single atomic UPDATE; day
// buckets live in MetricBucket.
type Course struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstitutionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"institution_id"`
	Institution   *Institution `gorm:"constraint:OnDelete:CASCADE;foreignKey:InstitutionID;references:ID" json:"institution,omitempty"`

	Title string `gorm:"column:title;not null" json:"title"`
	Slug  string `gorm:"column:slug;not null;index" json:"slug"`

	ViewCount       int64 `gorm:"column:view_count;not null;default:0" json:"view_count"`
	ComparisonCount int64 `gorm:"column:comparison_count;not null;default:0" json:"comparison_count"`
	LeadCount       int64 `gorm:"column:lead_count;not null;default:0" json:"lead_count"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
