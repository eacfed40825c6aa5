package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is an account created under exactly one institution. Its CreatedAt
// is the authoritative signal for every leads range, series and lifetime
// query; the leads bucket sequence is written but never consulted.
type Student struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstitutionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"institution_id"`
	Institution   *Institution `gorm:"constraint:OnDelete:CASCADE;foreignKey:InstitutionID;references:ID" json:"institution,omitempty"`

	Email string `gorm:"column:email;not null;index" json:"email"`
	Name  string `gorm:"column:name" json:"name"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Student) TableName() string { return "student" }
