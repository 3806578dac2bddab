package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type StudentProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profiles []*types.StudentProfile) ([]*types.StudentProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.StudentProfile, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudentProfile, error)
	UpdateProgram(ctx context.Context, tx *gorm.DB, profileID, programID uuid.UUID) error
}

type studentProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentProfileRepo(db *gorm.DB, baseLog *logger.Logger) StudentProfileRepo {
	repoLog := baseLog.With("repo", "StudentProfileRepo")
	return &studentProfileRepo{db: db, log: repoLog}
}

func (sr *studentProfileRepo) Create(ctx context.Context, tx *gorm.DB, profiles []*types.StudentProfile) ([]*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(profiles) == 0 {
		return []*types.StudentProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&profiles).Error; err != nil {
		return nil, mapError(err)
	}
	return profiles, nil
}

func (sr *studentProfileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, profileIDs []uuid.UUID) ([]*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.StudentProfile
	if len(profileIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", profileIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *studentProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StudentProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.StudentProfile
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *studentProfileRepo) UpdateProgram(ctx context.Context, tx *gorm.DB, profileID, programID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.StudentProfile{}).
		Where("id = ?", profileID).
		Update("program_id", programID).Error
}
