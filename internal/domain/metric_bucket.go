package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayLayout is the calendar-date key format for rollup buckets, always UTC.
const DayLayout = "2006-01-02"

// DayKey returns t's bucket day key in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// MetricBucket is one day's rollup of a single metric for a single course.
// The compound unique index is the invariant: at most one bucket per
// (course, metric, day), enforced by the database so concurrent first-of-day
// writers collapse into one row.
type MetricBucket struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_metric_bucket_key,priority:1" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`

	Metric Metric `gorm:"column:metric;type:text;not null;uniqueIndex:idx_metric_bucket_key,priority:2" json:"metric"`
	Day    string `gorm:"column:day;type:text;not null;uniqueIndex:idx_metric_bucket_key,priority:3" json:"day"`
	Count  int64  `gorm:"column:count;not null;default:0" json:"count"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (MetricBucket) TableName() string { return "metric_bucket" }
