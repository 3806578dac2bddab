package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RecordStatusPlanned    = "planned"
	RecordStatusInProgress = "in_progress"
	RecordStatusCompleted  = "completed"
)

// StudentCourseRecord is one student-course pairing. A student has at most
// one record per course; status only ever moves forward through
// planned, in_progress, completed.
type StudentCourseRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_course,unique" json:"student_id"`
	Student   *StudentProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	CourseID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_student_course,unique" json:"course_id"`
	Course    *Course         `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Status    string          `gorm:"not null;column:status" json:"status"`
	Term      string          `gorm:"column:term" json:"term"`
	Year      int             `gorm:"column:year" json:"year"`
	Grade     *float64        `gorm:"column:grade" json:"grade,omitempty"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (StudentCourseRecord) TableName() string { return "student_course_record" }

// StatusRank orders record statuses for the forward-only transition rule.
func StatusRank(status string) int {
	switch status {
	case RecordStatusPlanned:
		return 1
	case RecordStatusInProgress:
		return 2
	case RecordStatusCompleted:
		return 3
	}
	return 0
}
