package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/normalization"
)

// EligibilityService answers "can this student take this course" questions
// against the current catalog snapshot.
type EligibilityService interface {
	CheckCourse(ctx context.Context, userID uuid.UUID, courseCode, term string) (*engine.EligibilityResult, error)
	CheckAll(ctx context.Context, userID uuid.UUID, term string) ([]engine.EligibilityResult, error)
	PrerequisiteChain(ctx context.Context, courseCode string) (map[string][]string, error)
}

type eligibilityService struct {
	log            *logger.Logger
	catalogService CatalogService
	studentService StudentService
}

func NewEligibilityService(
	log *logger.Logger,
	catalogService CatalogService,
	studentService StudentService,
) EligibilityService {
	serviceLog := log.With("service", "EligibilityService")
	return &eligibilityService{
		log:            serviceLog,
		catalogService: catalogService,
		studentService: studentService,
	}
}

func (es *eligibilityService) CheckCourse(ctx context.Context, userID uuid.UUID, courseCode, term string) (*engine.EligibilityResult, error) {
	snap, graph, hist, err := es.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := engine.CanTakeByCode(snap, graph, hist, normalization.NormalizeCode(courseCode), normalization.NormalizeTerm(term))
	return &result, nil
}

// CheckAll evaluates every active catalog course for one student and term.
func (es *eligibilityService) CheckAll(ctx context.Context, userID uuid.UUID, term string) ([]engine.EligibilityResult, error) {
	snap, graph, hist, err := es.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	term = normalization.NormalizeTerm(term)
	results := []engine.EligibilityResult{}
	for _, course := range engine.ActiveCourses(snap) {
		results = append(results, engine.CanTake(snap, graph, hist, course.ID, term))
	}
	return results, nil
}

func (es *eligibilityService) PrerequisiteChain(ctx context.Context, courseCode string) (map[string][]string, error) {
	snap, graph, err := es.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	course := snap.CourseByCode(normalization.NormalizeCode(courseCode))
	if course == nil {
		return nil, fmt.Errorf("unknown course %q", courseCode)
	}
	return graph.PrerequisiteChain(course.ID), nil
}

func (es *eligibilityService) load(ctx context.Context, userID uuid.UUID) (*engine.CatalogSnapshot, *engine.CourseGraph, *engine.StudentHistory, error) {
	snap, graph, err := es.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	profile, err := es.studentService.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	hist, err := es.studentService.History(ctx, profile)
	if err != nil {
		return nil, nil, nil, err
	}
	return snap, graph, hist, nil
}
