package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DepartmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department    `gorm:"constraint:OnDelete:CASCADE;foreignKey:DepartmentID;references:ID" json:"department,omitempty"`
	Subject      string         `gorm:"not null;index:idx_course_code,unique;column:subject" json:"subject"`
	Number       string         `gorm:"not null;index:idx_course_code,unique;column:number" json:"number"`
	Title        string         `gorm:"not null;column:title" json:"title"`
	Description  string         `gorm:"column:description" json:"description"`
	Credits      float64        `gorm:"not null;column:credits" json:"credits"`
	Active       bool           `gorm:"not null;default:true;column:active" json:"active"`
	TermsOffered datatypes.JSON `gorm:"column:terms_offered;type:jsonb" json:"terms_offered"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }
