package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Institution struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OperatorID uuid.UUID `gorm:"type:uuid;not null;index" json:"operator_id"`
	Operator   *Operator `gorm:"constraint:OnDelete:CASCADE;foreignKey:OperatorID;references:ID" json:"operator,omitempty"`

	Name string `gorm:"column:name;not null" json:"name"`
	Slug string `gorm:"column:slug;not null;uniqueIndex" json:"slug"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Institution) TableName() string { return "institution" }
