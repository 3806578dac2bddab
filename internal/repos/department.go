package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type DepartmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, departments []*types.Department) ([]*types.Department, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Department, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Department, error)
}

type departmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDepartmentRepo(db *gorm.DB, baseLog *logger.Logger) DepartmentRepo {
	repoLog := baseLog.With("repo", "DepartmentRepo")
	return &departmentRepo{db: db, log: repoLog}
}

func (dr *departmentRepo) Create(ctx context.Context, tx *gorm.DB, departments []*types.Department) ([]*types.Department, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if len(departments) == 0 {
		return []*types.Department{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&departments).Error; err != nil {
		return nil, mapError(err)
	}
	return departments, nil
}

func (dr *departmentRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Department, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Department
	if err := transaction.WithContext(ctx).
		Order("code asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *departmentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Department, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Department
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
