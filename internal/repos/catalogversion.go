package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type CatalogVersionRepo interface {
	Current(ctx context.Context, tx *gorm.DB) (int64, error)
	Bump(ctx context.Context, tx *gorm.DB) (int64, error)
}

type catalogVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogVersionRepo(db *gorm.DB, baseLog *logger.Logger) CatalogVersionRepo {
	repoLog := baseLog.With("repo", "CatalogVersionRepo")
	return &catalogVersionRepo{db: db, log: repoLog}
}

func (cv *catalogVersionRepo) Current(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cv.db
	}

	var row types.CatalogVersion
	err := transaction.WithContext(ctx).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Version, nil
}

// Bump increments the singleton counter, creating it on first write.
func (cv *catalogVersionRepo) Bump(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cv.db
	}

	var row types.CatalogVersion
	err := transaction.WithContext(ctx).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = types.CatalogVersion{Version: 2}
		if err := transaction.WithContext(ctx).Create(&row).Error; err != nil {
			return 0, mapError(err)
		}
		return row.Version, nil
	}
	if err != nil {
		return 0, err
	}

	row.Version++
	if err := transaction.WithContext(ctx).Save(&row).Error; err != nil {
		return 0, mapError(err)
	}
	return row.Version, nil
}
