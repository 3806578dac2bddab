package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/clients/redis"
	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/repos"
	"github.com/campusplan/advisor-backend/internal/types"
)

var (
	ErrRecordExists      = errors.New("student already has a record for this course")
	ErrBackwardStatus    = errors.New("course status can only move forward")
	ErrGradeRequiresDone = errors.New("a grade requires completed status")
)

// StudentService manages student profiles and transcript records and
// assembles the read-only history the engine evaluates against.
type StudentService interface {
	CreateProfile(ctx context.Context, profile *types.StudentProfile) (*types.StudentProfile, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*types.StudentProfile, error)
	ChangeProgram(ctx context.Context, profileID, programID uuid.UUID) error

	ListRecords(ctx context.Context, studentID uuid.UUID) ([]*types.StudentCourseRecord, error)
	AddRecord(ctx context.Context, record *types.StudentCourseRecord) (*types.StudentCourseRecord, error)
	UpdateRecordStatus(ctx context.Context, studentID, courseID uuid.UUID, status string, grade *float64) (*types.StudentCourseRecord, error)
	DeleteRecord(ctx context.Context, studentID, courseID uuid.UUID) error

	History(ctx context.Context, profile *types.StudentProfile) (*engine.StudentHistory, error)
}

type studentService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.StudentProfileRepo
	recordRepo  repos.StudentRecordRepo
	auditCache  redis.AuditCache
}

func NewStudentService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.StudentProfileRepo,
	recordRepo repos.StudentRecordRepo,
	auditCache redis.AuditCache,
) StudentService {
	serviceLog := log.With("service", "StudentService")
	return &studentService{
		db:          db,
		log:         serviceLog,
		profileRepo: profileRepo,
		recordRepo:  recordRepo,
		auditCache:  auditCache,
	}
}

// evictAudits drops cached audits after any write that changes what an
// audit would report.
func (ss *studentService) evictAudits(ctx context.Context, studentID uuid.UUID) {
	if ss.auditCache != nil {
		ss.auditCache.Invalidate(ctx, studentID.String())
	}
}

func (ss *studentService) CreateProfile(ctx context.Context, profile *types.StudentProfile) (*types.StudentProfile, error) {
	profile.ID = uuid.New()
	created, err := ss.profileRepo.Create(ctx, nil, []*types.StudentProfile{profile})
	if err != nil {
		return nil, fmt.Errorf("failed to create student profile: %w", err)
	}
	return created[0], nil
}

func (ss *studentService) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*types.StudentProfile, error) {
	return ss.profileRepo.GetByUserID(ctx, nil, userID)
}

func (ss *studentService) ChangeProgram(ctx context.Context, profileID, programID uuid.UUID) error {
	if err := ss.profileRepo.UpdateProgram(ctx, nil, profileID, programID); err != nil {
		return err
	}
	ss.evictAudits(ctx, profileID)
	return nil
}

func (ss *studentService) ListRecords(ctx context.Context, studentID uuid.UUID) ([]*types.StudentCourseRecord, error) {
	return ss.recordRepo.GetByStudent(ctx, nil, studentID)
}

func (ss *studentService) AddRecord(ctx context.Context, record *types.StudentCourseRecord) (*types.StudentCourseRecord, error) {
	if types.StatusRank(record.Status) == 0 {
		return nil, fmt.Errorf("unknown course status %q", record.Status)
	}
	if record.Grade != nil && record.Status != types.RecordStatusCompleted {
		return nil, ErrGradeRequiresDone
	}
	record.ID = uuid.New()
	created, err := ss.recordRepo.Create(ctx, nil, []*types.StudentCourseRecord{record})
	if errors.Is(err, repos.ErrDuplicate) {
		return nil, ErrRecordExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create course record: %w", err)
	}
	ss.evictAudits(ctx, record.StudentID)
	return created[0], nil
}

// UpdateRecordStatus enforces the forward-only transition rule: planned
// may become in_progress or completed, in_progress may become completed,
// and completed never changes.
func (ss *studentService) UpdateRecordStatus(ctx context.Context, studentID, courseID uuid.UUID, status string, grade *float64) (*types.StudentCourseRecord, error) {
	if types.StatusRank(status) == 0 {
		return nil, fmt.Errorf("unknown course status %q", status)
	}
	if grade != nil && status != types.RecordStatusCompleted {
		return nil, ErrGradeRequiresDone
	}

	var updated *types.StudentCourseRecord
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := ss.recordRepo.GetByStudentAndCourse(ctx, tx, studentID, courseID)
		if err != nil {
			return fmt.Errorf("failed to load course record: %w", err)
		}
		if types.StatusRank(status) < types.StatusRank(record.Status) {
			return ErrBackwardStatus
		}
		record.Status = status
		if grade != nil {
			record.Grade = grade
		}
		updated, err = ss.recordRepo.Update(ctx, tx, record)
		if err != nil {
			return fmt.Errorf("failed to update course record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ss.evictAudits(ctx, studentID)
	return updated, nil
}

func (ss *studentService) DeleteRecord(ctx context.Context, studentID, courseID uuid.UUID) error {
	record, err := ss.recordRepo.GetByStudentAndCourse(ctx, nil, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to load course record: %w", err)
	}
	if err := ss.recordRepo.DeleteByIDs(ctx, nil, []uuid.UUID{record.ID}); err != nil {
		return err
	}
	ss.evictAudits(ctx, studentID)
	return nil
}

func (ss *studentService) History(ctx context.Context, profile *types.StudentProfile) (*engine.StudentHistory, error) {
	rows, err := ss.recordRepo.GetByStudent(ctx, nil, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course records: %w", err)
	}
	records := make([]engine.CourseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, engine.CourseRecord{
			CourseID: row.CourseID,
			Status:   engine.CourseStatus(row.Status),
			Term:     row.Term,
			Grade:    row.Grade,
		})
	}
	return engine.NewStudentHistory(profile.ID, profile.ProgramID, records), nil
}
