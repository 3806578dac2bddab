package types

import (
	"time"

	"github.com/google/uuid"
)

// RequirementCourse binds a course into a requirement node's member pool.
type RequirementCourse struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RequirementID uuid.UUID           `gorm:"type:uuid;not null;index" json:"requirement_id"`
	Requirement   *ProgramRequirement `gorm:"constraint:OnDelete:CASCADE;foreignKey:RequirementID;references:ID" json:"requirement,omitempty"`
	CourseID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"course_id"`
	Course        *Course             `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	CreatedAt     time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (RequirementCourse) TableName() string { return "requirement_course" }
