package types

import (
	"time"

	"github.com/google/uuid"
)

// PrerequisiteGroup is one alternative set on a course: any member
// satisfies the group, and every required group must be satisfied.
type PrerequisiteGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Required  bool      `gorm:"not null;default:true;column:required" json:"required"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (PrerequisiteGroup) TableName() string { return "prerequisite_group" }
