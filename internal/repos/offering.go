package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type OfferingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, offerings []*types.CourseOffering) ([]*types.CourseOffering, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, offeringIDs []uuid.UUID) ([]*types.CourseOffering, error)
	GetByTerm(ctx context.Context, tx *gorm.DB, term string, year int) ([]*types.CourseOffering, error)
	GetByCourseAndTerm(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, term string, year int) ([]*types.CourseOffering, error)
	CreateSlots(ctx context.Context, tx *gorm.DB, slots []*types.TimeSlot) ([]*types.TimeSlot, error)
}

type offeringRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOfferingRepo(db *gorm.DB, baseLog *logger.Logger) OfferingRepo {
	repoLog := baseLog.With("repo", "OfferingRepo")
	return &offeringRepo{db: db, log: repoLog}
}

func (or *offeringRepo) Create(ctx context.Context, tx *gorm.DB, offerings []*types.CourseOffering) ([]*types.CourseOffering, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if len(offerings) == 0 {
		return []*types.CourseOffering{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&offerings).Error; err != nil {
		return nil, mapError(err)
	}
	return offerings, nil
}

func (or *offeringRepo) GetByIDs(ctx context.Context, tx *gorm.DB, offeringIDs []uuid.UUID) ([]*types.CourseOffering, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []*types.CourseOffering
	if len(offeringIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Slots").
		Preload("Course").
		Where("id IN ?", offeringIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *offeringRepo) GetByTerm(ctx context.Context, tx *gorm.DB, term string, year int) ([]*types.CourseOffering, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []*types.CourseOffering
	if err := transaction.WithContext(ctx).
		Preload("Slots").
		Preload("Course").
		Where("term = ? AND year = ?", term, year).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *offeringRepo) GetByCourseAndTerm(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, term string, year int) ([]*types.CourseOffering, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []*types.CourseOffering
	if err := transaction.WithContext(ctx).
		Preload("Slots").
		Preload("Course").
		Where("course_id = ? AND term = ? AND year = ?", courseID, term, year).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *offeringRepo) CreateSlots(ctx context.Context, tx *gorm.DB, slots []*types.TimeSlot) ([]*types.TimeSlot, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if len(slots) == 0 {
		return []*types.TimeSlot{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&slots).Error; err != nil {
		return nil, mapError(err)
	}
	return slots, nil
}
