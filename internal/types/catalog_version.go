package types

import (
	"time"

	"github.com/google/uuid"
)

// CatalogVersion is a single-row counter bumped on every catalog write.
// Snapshots and audit cache keys carry the version so stale cache entries
// age out naturally.
type CatalogVersion struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Version   int64     `gorm:"not null;default:1;column:version" json:"version"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CatalogVersion) TableName() string { return "catalog_version" }
