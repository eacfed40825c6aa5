package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operator is the account that administers one or more institutions. All
// cross-institution totals and trend queries are scoped to the courses under
// the institutions an operator owns.
type Operator struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Name  string    `gorm:"column:name;not null" json:"name"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Operator) TableName() string { return "operator" }
