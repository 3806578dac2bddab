package types

import (
	"time"

	"github.com/google/uuid"
)

// MajorRestriction limits enrollment in a course to students of one
// program. A course with no rows is open to everyone.
type MajorRestriction struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	Program   *Program  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (MajorRestriction) TableName() string { return "major_restriction" }
