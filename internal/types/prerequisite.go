package types

import (
	"time"

	"github.com/google/uuid"
)

type Prerequisite struct {
	ID        uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GroupID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"group_id"`
	Group     *PrerequisiteGroup `gorm:"constraint:OnDelete:CASCADE;foreignKey:GroupID;references:ID" json:"group,omitempty"`
	CourseID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course            `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	CreatedAt time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null;default:now()" json:"updated_at"`
}

func (Prerequisite) TableName() string { return "prerequisite" }
