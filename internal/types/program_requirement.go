package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProgramRequirement is one node of a program's requirement tree.
// ParentID nil marks a root; sibling display order comes from Order.
type ProgramRequirement struct {
	ID                       uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProgramID                uuid.UUID           `gorm:"type:uuid;not null;index" json:"program_id"`
	Program                  *Program            `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProgramID;references:ID" json:"program,omitempty"`
	ParentID                 *uuid.UUID          `gorm:"type:uuid;index;column:parent_id" json:"parent_id,omitempty"`
	Parent                   *ProgramRequirement `gorm:"constraint:OnDelete:CASCADE;foreignKey:ParentID;references:ID" json:"parent,omitempty"`
	Name                     string              `gorm:"not null;column:name" json:"name"`
	Type                     string              `gorm:"not null;column:type" json:"type"`
	CoursesRequired          int                 `gorm:"column:courses_required" json:"courses_required"`
	CreditsRequired          float64             `gorm:"column:credits_required" json:"credits_required"`
	MinimumLevel             int                 `gorm:"column:minimum_level" json:"minimum_level"`
	MaximumCourses           int                 `gorm:"column:maximum_courses" json:"maximum_courses"`
	SubjectCodes             datatypes.JSON      `gorm:"column:subject_codes;type:jsonb" json:"subject_codes"`
	RequireDifferentSubjects bool                `gorm:"column:require_different_subjects" json:"require_different_subjects"`
	MinimumSubjects          int                 `gorm:"column:minimum_subjects" json:"minimum_subjects"`
	Order                    int                 `gorm:"column:display_order" json:"order"`
	Required                 bool                `gorm:"not null;default:true;column:required" json:"required"`
	CreatedAt                time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt                time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProgramRequirement) TableName() string { return "program_requirement" }
