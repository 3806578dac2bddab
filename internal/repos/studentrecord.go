package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type StudentRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.StudentCourseRecord) ([]*types.StudentCourseRecord, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentCourseRecord, error)
	GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*types.StudentCourseRecord, error)
	Update(ctx context.Context, tx *gorm.DB, record *types.StudentCourseRecord) (*types.StudentCourseRecord, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error
}

type studentRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRecordRepo(db *gorm.DB, baseLog *logger.Logger) StudentRecordRepo {
	repoLog := baseLog.With("repo", "StudentRecordRepo")
	return &studentRecordRepo{db: db, log: repoLog}
}

func (rr *studentRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.StudentCourseRecord) ([]*types.StudentCourseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(records) == 0 {
		return []*types.StudentCourseRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, mapError(err)
	}
	return records, nil
}

func (rr *studentRecordRepo) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentCourseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.StudentCourseRecord
	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *studentRecordRepo) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*types.StudentCourseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.StudentCourseRecord
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *studentRecordRepo) Update(ctx context.Context, tx *gorm.DB, record *types.StudentCourseRecord) (*types.StudentCourseRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Save(record).Error; err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (rr *studentRecordRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, recordIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recordIDs) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", recordIDs).
		Delete(&types.StudentCourseRecord{}).Error
}
