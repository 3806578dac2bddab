package types

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Faculty   string    `gorm:"column:faculty" json:"faculty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Department) TableName() string { return "department" }
