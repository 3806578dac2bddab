package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type ProgramRepo interface {
	Create(ctx context.Context, tx *gorm.DB, programs []*types.Program) ([]*types.Program, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Program, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, programIDs []uuid.UUID) ([]*types.Program, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Program, error)

	GetAllRequirements(ctx context.Context, tx *gorm.DB) ([]*types.ProgramRequirement, error)
	GetRequirementsByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.ProgramRequirement, error)
	GetAllRequirementCourses(ctx context.Context, tx *gorm.DB) ([]*types.RequirementCourse, error)
	CreateRequirements(ctx context.Context, tx *gorm.DB, requirements []*types.ProgramRequirement) ([]*types.ProgramRequirement, error)
	CreateRequirementCourses(ctx context.Context, tx *gorm.DB, members []*types.RequirementCourse) ([]*types.RequirementCourse, error)
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	repoLog := baseLog.With("repo", "ProgramRepo")
	return &programRepo{db: db, log: repoLog}
}

func (pr *programRepo) Create(ctx context.Context, tx *gorm.DB, programs []*types.Program) ([]*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(programs) == 0 {
		return []*types.Program{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&programs).Error; err != nil {
		return nil, mapError(err)
	}
	return programs, nil
}

func (pr *programRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Program
	if err := transaction.WithContext(ctx).
		Order("code asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *programRepo) GetByIDs(ctx context.Context, tx *gorm.DB, programIDs []uuid.UUID) ([]*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Program
	if len(programIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", programIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *programRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.Program, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.Program
	if err := transaction.WithContext(ctx).
		Where("code = ?", code).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *programRepo) GetAllRequirements(ctx context.Context, tx *gorm.DB) ([]*types.ProgramRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.ProgramRequirement
	if err := transaction.WithContext(ctx).
		Order("program_id asc, display_order asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *programRepo) GetRequirementsByProgram(ctx context.Context, tx *gorm.DB, programID uuid.UUID) ([]*types.ProgramRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.ProgramRequirement
	if err := transaction.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("display_order asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *programRepo) GetAllRequirementCourses(ctx context.Context, tx *gorm.DB) ([]*types.RequirementCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.RequirementCourse
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *programRepo) CreateRequirements(ctx context.Context, tx *gorm.DB, requirements []*types.ProgramRequirement) ([]*types.ProgramRequirement, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(requirements) == 0 {
		return []*types.ProgramRequirement{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&requirements).Error; err != nil {
		return nil, mapError(err)
	}
	return requirements, nil
}

func (pr *programRepo) CreateRequirementCourses(ctx context.Context, tx *gorm.DB, members []*types.RequirementCourse) ([]*types.RequirementCourse, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if len(members) == 0 {
		return []*types.RequirementCourse{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, mapError(err)
	}
	return members, nil
}
