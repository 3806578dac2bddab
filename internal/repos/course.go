package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error)
	SetActive(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, active bool) error

	GetAllPrerequisiteGroups(ctx context.Context, tx *gorm.DB) ([]*types.PrerequisiteGroup, error)
	GetAllPrerequisites(ctx context.Context, tx *gorm.DB) ([]*types.Prerequisite, error)
	GetAllCorequisites(ctx context.Context, tx *gorm.DB) ([]*types.Corequisite, error)
	GetAllAntirequisites(ctx context.Context, tx *gorm.DB) ([]*types.Antirequisite, error)
	GetAllMajorRestrictions(ctx context.Context, tx *gorm.DB) ([]*types.MajorRestriction, error)
	CreatePrerequisiteGroups(ctx context.Context, tx *gorm.DB, groups []*types.PrerequisiteGroup) ([]*types.PrerequisiteGroup, error)
	CreatePrerequisites(ctx context.Context, tx *gorm.DB, members []*types.Prerequisite) ([]*types.Prerequisite, error)
	CreateCorequisites(ctx context.Context, tx *gorm.DB, corequisites []*types.Corequisite) ([]*types.Corequisite, error)
	CreateAntirequisites(ctx context.Context, tx *gorm.DB, antirequisites []*types.Antirequisite) ([]*types.Antirequisite, error)
	CreateMajorRestrictions(ctx context.Context, tx *gorm.DB, restrictions []*types.MajorRestriction) ([]*types.MajorRestriction, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (cr *courseRepo) Create(ctx context.Context, tx *gorm.DB, courses []*types.Course) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(courses) == 0 {
		return []*types.Course{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&courses).Error; err != nil {
		return nil, mapError(err)
	}
	return courses, nil
}

func (cr *courseRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Course
	if err := transaction.WithContext(ctx).
		Order("subject asc, number asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", courseIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) Update(ctx context.Context, tx *gorm.DB, course *types.Course) (*types.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Save(course).Error; err != nil {
		return nil, mapError(err)
	}
	return course, nil
}

func (cr *courseRepo) SetActive(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, active bool) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Update("active", active).Error
}

func (cr *courseRepo) GetAllPrerequisiteGroups(ctx context.Context, tx *gorm.DB) ([]*types.PrerequisiteGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.PrerequisiteGroup
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetAllPrerequisites(ctx context.Context, tx *gorm.DB) ([]*types.Prerequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Prerequisite
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetAllCorequisites(ctx context.Context, tx *gorm.DB) ([]*types.Corequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Corequisite
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetAllAntirequisites(ctx context.Context, tx *gorm.DB) ([]*types.Antirequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Antirequisite
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) GetAllMajorRestrictions(ctx context.Context, tx *gorm.DB) ([]*types.MajorRestriction, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.MajorRestriction
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *courseRepo) CreatePrerequisiteGroups(ctx context.Context, tx *gorm.DB, groups []*types.PrerequisiteGroup) ([]*types.PrerequisiteGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(groups) == 0 {
		return []*types.PrerequisiteGroup{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&groups).Error; err != nil {
		return nil, mapError(err)
	}
	return groups, nil
}

func (cr *courseRepo) CreatePrerequisites(ctx context.Context, tx *gorm.DB, members []*types.Prerequisite) ([]*types.Prerequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(members) == 0 {
		return []*types.Prerequisite{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, mapError(err)
	}
	return members, nil
}

func (cr *courseRepo) CreateCorequisites(ctx context.Context, tx *gorm.DB, corequisites []*types.Corequisite) ([]*types.Corequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(corequisites) == 0 {
		return []*types.Corequisite{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&corequisites).Error; err != nil {
		return nil, mapError(err)
	}
	return corequisites, nil
}

func (cr *courseRepo) CreateAntirequisites(ctx context.Context, tx *gorm.DB, antirequisites []*types.Antirequisite) ([]*types.Antirequisite, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(antirequisites) == 0 {
		return []*types.Antirequisite{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&antirequisites).Error; err != nil {
		return nil, mapError(err)
	}
	return antirequisites, nil
}

func (cr *courseRepo) CreateMajorRestrictions(ctx context.Context, tx *gorm.DB, restrictions []*types.MajorRestriction) ([]*types.MajorRestriction, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(restrictions) == 0 {
		return []*types.MajorRestriction{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&restrictions).Error; err != nil {
		return nil, mapError(err)
	}
	return restrictions, nil
}
