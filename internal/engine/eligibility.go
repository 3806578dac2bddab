package engine

import (
	"github.com/google/uuid"
)

type EligibilityReason string

const (
	ReasonUnknownCourse        EligibilityReason = "unknown_course"
	ReasonNotOffered           EligibilityReason = "not_offered"
	ReasonRestrictedToMajors   EligibilityReason = "restricted_to_majors"
	ReasonAntirequisite        EligibilityReason = "antirequisite_conflict"
	ReasonMissingPrerequisites EligibilityReason = "missing_prerequisites"
)

// EligibilityResult is a plain serializable record; absence of data shows
// up as empty lists, never nulls, so repeated calls over equal inputs
// encode identically.
type EligibilityResult struct {
	CourseID             uuid.UUID         `json:"course_id"`
	CourseCode           string            `json:"course_code"`
	Term                 string            `json:"term"`
	CanTake              bool              `json:"can_take"`
	Reason               EligibilityReason `json:"reason,omitempty"`
	MissingPrerequisites []string          `json:"missing_prerequisites"`
	BlockingAntirequisites []string        `json:"blocking_antirequisites"`
	// MissingCorequisites is informational: corequisites can still be
	// planned for the same term, so they never block eligibility here.
	MissingCorequisites []string `json:"missing_corequisites"`
}

// CanTake decides whether the student may take the course in the target
// term. It is pure and total: unknown ids yield reason unknown_course, and
// the first failing check in the fixed order decides the reason.
func CanTake(snap *CatalogSnapshot, graph *CourseGraph, hist *StudentHistory, courseID uuid.UUID, term string) EligibilityResult {
	result := EligibilityResult{
		CourseID:               courseID,
		Term:                   term,
		MissingPrerequisites:   []string{},
		BlockingAntirequisites: []string{},
		MissingCorequisites:    []string{},
	}

	course := snap.Course(courseID)
	if course == nil {
		result.Reason = ReasonUnknownCourse
		return result
	}
	result.CourseCode = course.Code()

	if !course.Active || !course.OfferedIn(term) {
		result.Reason = ReasonNotOffered
		return result
	}

	if len(course.RestrictedTo) > 0 && !restrictedAllows(course, hist.ProgramID) {
		result.Reason = ReasonRestrictedToMajors
		return result
	}

	if violated, blocking := graph.AntirequisiteViolated(courseID, hist); violated {
		result.Reason = ReasonAntirequisite
		for _, id := range blocking {
			result.BlockingAntirequisites = append(result.BlockingAntirequisites, codeOrID(snap, id))
		}
		return result
	}

	completed := hist.CompletedSet()
	if !graph.PrerequisitesSatisfied(courseID, completed) {
		result.Reason = ReasonMissingPrerequisites
		result.MissingPrerequisites = graph.MissingPrerequisites(courseID, completed)
		return result
	}

	if ok, missing := graph.CorequisitesSatisfied(courseID, hist, term); !ok {
		for _, id := range missing {
			result.MissingCorequisites = append(result.MissingCorequisites, codeOrID(snap, id))
		}
	}

	result.CanTake = true
	return result
}

// CanTakeByCode resolves the course code first so unknown codes come back
// as unknown_course results instead of errors.
func CanTakeByCode(snap *CatalogSnapshot, graph *CourseGraph, hist *StudentHistory, courseCode, term string) EligibilityResult {
	course := snap.CourseByCode(courseCode)
	if course == nil {
		return EligibilityResult{
			CourseCode:             courseCode,
			Term:                   term,
			Reason:                 ReasonUnknownCourse,
			MissingPrerequisites:   []string{},
			BlockingAntirequisites: []string{},
			MissingCorequisites:    []string{},
		}
	}
	return CanTake(snap, graph, hist, course.ID, term)
}

func restrictedAllows(course *Course, programID uuid.UUID) bool {
	for _, allowed := range course.RestrictedTo {
		if allowed == programID {
			return true
		}
	}
	return false
}

func codeOrID(snap *CatalogSnapshot, id uuid.UUID) string {
	if c := snap.Course(id); c != nil {
		return c.Code()
	}
	return id.String()
}
