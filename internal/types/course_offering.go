package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseOffering struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"course_id"`
	Course     *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Term       string         `gorm:"not null;index;column:term" json:"term"`
	Year       int            `gorm:"not null;index;column:year" json:"year"`
	Section    string         `gorm:"not null;column:section" json:"section"`
	Instructor string         `gorm:"column:instructor" json:"instructor"`
	Capacity   int            `gorm:"column:capacity" json:"capacity"`
	Slots      []TimeSlot     `gorm:"foreignKey:OfferingID" json:"slots,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseOffering) TableName() string { return "course_offering" }
