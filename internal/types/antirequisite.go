package types

import (
	"time"

	"github.com/google/uuid"
)

type Antirequisite struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course     *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	ExcludedID uuid.UUID `gorm:"type:uuid;not null;index;column:excluded_id" json:"excluded_id"`
	Excluded   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ExcludedID;references:ID" json:"excluded,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Antirequisite) TableName() string { return "antirequisite" }
