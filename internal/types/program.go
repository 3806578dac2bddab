package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Program struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DepartmentID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"department_id"`
	Department           *Department    `gorm:"constraint:OnDelete:CASCADE;foreignKey:DepartmentID;references:ID" json:"department,omitempty"`
	Code                 string         `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name                 string         `gorm:"not null;column:name" json:"name"`
	Description          string         `gorm:"column:description" json:"description"`
	TotalCreditsRequired float64        `gorm:"not null;column:total_credits_required" json:"total_credits_required"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Program) TableName() string { return "program" }
