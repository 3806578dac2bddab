package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/normalization"
	"github.com/campusplan/advisor-backend/internal/repos"
	"github.com/campusplan/advisor-backend/internal/types"
)

// ScheduleReport is the full conflict picture for one proposed schedule.
type ScheduleReport struct {
	Conflicts []engine.ScheduleConflict `json:"conflicts"`
	Gaps      []engine.ScheduleGap      `json:"gaps"`
	Workload  engine.WorkloadSummary    `json:"workload"`
}

// CanAddResult reports whether a candidate offering fits an existing
// selection, with same-course alternatives when it does not.
type CanAddResult struct {
	CanAdd       bool                      `json:"can_add"`
	Conflicts    []engine.ScheduleConflict `json:"conflicts"`
	Alternatives []engine.Offering         `json:"alternatives"`
}

type ScheduleService interface {
	Validate(ctx context.Context, offeringIDs []uuid.UUID) (*ScheduleReport, error)
	CanAdd(ctx context.Context, existingIDs []uuid.UUID, candidateID uuid.UUID) (*CanAddResult, error)
	ListOfferings(ctx context.Context, term string, year int) ([]engine.Offering, error)
}

type scheduleService struct {
	log          *logger.Logger
	offeringRepo repos.OfferingRepo
}

func NewScheduleService(log *logger.Logger, offeringRepo repos.OfferingRepo) ScheduleService {
	serviceLog := log.With("service", "ScheduleService")
	return &scheduleService{log: serviceLog, offeringRepo: offeringRepo}
}

func (ss *scheduleService) Validate(ctx context.Context, offeringIDs []uuid.UUID) (*ScheduleReport, error) {
	offerings, err := ss.loadOfferings(ctx, offeringIDs)
	if err != nil {
		return nil, err
	}
	return &ScheduleReport{
		Conflicts: engine.DetectConflicts(offerings),
		Gaps:      engine.FindGaps(offerings),
		Workload:  engine.AnalyzeWorkload(offerings),
	}, nil
}

func (ss *scheduleService) CanAdd(ctx context.Context, existingIDs []uuid.UUID, candidateID uuid.UUID) (*CanAddResult, error) {
	existing, err := ss.loadOfferings(ctx, existingIDs)
	if err != nil {
		return nil, err
	}
	candidates, err := ss.loadOfferings(ctx, []uuid.UUID{candidateID})
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("unknown offering %s", candidateID)
	}
	candidate := candidates[0]

	ok, conflicts := engine.CanAdd(existing, candidate)
	result := &CanAddResult{
		CanAdd:       ok,
		Conflicts:    conflicts,
		Alternatives: []engine.Offering{},
	}
	if ok {
		return result, nil
	}

	// Other sections of the same course that do fit.
	rows, err := ss.offeringRepo.GetByCourseAndTerm(ctx, nil, candidate.CourseID, candidate.Term, candidate.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to load alternative sections: %w", err)
	}
	for _, row := range rows {
		if row.ID == candidate.ID {
			continue
		}
		alt := offeringToEngine(row)
		if fits, _ := engine.CanAdd(existing, alt); fits {
			result.Alternatives = append(result.Alternatives, alt)
		}
	}
	return result, nil
}

func (ss *scheduleService) ListOfferings(ctx context.Context, term string, year int) ([]engine.Offering, error) {
	rows, err := ss.offeringRepo.GetByTerm(ctx, nil, normalization.NormalizeTerm(term), year)
	if err != nil {
		return nil, fmt.Errorf("failed to load offerings: %w", err)
	}
	offerings := make([]engine.Offering, 0, len(rows))
	for _, row := range rows {
		offerings = append(offerings, offeringToEngine(row))
	}
	return offerings, nil
}

func (ss *scheduleService) loadOfferings(ctx context.Context, ids []uuid.UUID) ([]engine.Offering, error) {
	rows, err := ss.offeringRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load offerings: %w", err)
	}
	offerings := make([]engine.Offering, 0, len(rows))
	for _, row := range rows {
		offerings = append(offerings, offeringToEngine(row))
	}
	return offerings, nil
}

func offeringToEngine(row *types.CourseOffering) engine.Offering {
	offering := engine.Offering{
		ID:         row.ID,
		CourseID:   row.CourseID,
		Term:       row.Term,
		Year:       row.Year,
		Section:    row.Section,
		Instructor: row.Instructor,
	}
	if row.Course != nil {
		offering.CourseCode = row.Course.Subject + " " + row.Course.Number
		offering.Credits = engine.CreditsFromFloat(row.Course.Credits)
	}
	for _, slot := range row.Slots {
		offering.Slots = append(offering.Slots, engine.Slot{
			Day:      slot.Day,
			Start:    slot.StartMinutes,
			End:      slot.EndMinutes,
			Location: slot.Location,
		})
	}
	return offering
}
