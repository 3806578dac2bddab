package types

import (
	"time"

	"github.com/google/uuid"
)

type Corequisite struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course       *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	RequiredID   uuid.UUID `gorm:"type:uuid;not null;index;column:required_id" json:"required_id"`
	Required     *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:RequiredID;references:ID" json:"required,omitempty"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Corequisite) TableName() string { return "corequisite" }
