package types

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot stores meeting times as minutes from midnight so overlap checks
// never touch timezone-aware clock parsing.
type TimeSlot struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OfferingID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"offering_id"`
	Offering     *CourseOffering `gorm:"constraint:OnDelete:CASCADE;foreignKey:OfferingID;references:ID" json:"offering,omitempty"`
	Day          string          `gorm:"not null;column:day" json:"day"`
	StartMinutes int             `gorm:"not null;column:start_minutes" json:"start_minutes"`
	EndMinutes   int             `gorm:"not null;column:end_minutes" json:"end_minutes"`
	Location     string          `gorm:"column:location" json:"location"`
	CreatedAt    time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (TimeSlot) TableName() string { return "time_slot" }
