// Package engine evaluates course eligibility, degree-audit progress,
// schedule conflicts and course recommendations over immutable catalog
// snapshots. Nothing in here touches the database or the network; callers
// load a snapshot plus a student history and every entry point is a pure
// function over those inputs, so concurrent evaluations need no locks.
package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Credits is a fixed-point credit value in quarter-credit units, so 1.5
// credits is Credits(6). Catalog credit values are quarter-credit granular
// and float drift across audit sums is not acceptable.
type Credits int

func CreditsFromFloat(v float64) Credits {
	return Credits(math.Round(v * 4))
}

func (c Credits) Float() float64 {
	return float64(c) / 4
}

func (c Credits) String() string {
	return strconv.FormatFloat(c.Float(), 'f', -1, 64)
}

func (c Credits) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Credits) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse credits: %w", err)
	}
	*c = CreditsFromFloat(v)
	return nil
}

type CourseStatus string

const (
	StatusPlanned    CourseStatus = "planned"
	StatusInProgress CourseStatus = "in_progress"
	StatusCompleted  CourseStatus = "completed"
)

// StatusRank orders statuses along the only legal transition direction,
// planned -> in_progress -> completed. Unknown statuses rank below planned.
func StatusRank(s CourseStatus) int {
	switch s {
	case StatusPlanned:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	}
	return 0
}

// PrereqGroup is satisfied when the student has completed at least one
// member (OR semantics). A course's full prerequisite condition is the AND
// of its required groups; optional groups are informational only.
type PrereqGroup struct {
	ID       uuid.UUID
	Name     string
	Required bool
	Members  []uuid.UUID
}

type Course struct {
	ID             uuid.UUID
	Subject        string
	Number         string
	Title          string
	Credits        Credits
	Active         bool
	TermsOffered   []string
	Groups         []PrereqGroup
	Corequisites   []uuid.UUID
	Antirequisites []uuid.UUID
	// RestrictedTo lists program ids allowed to take the course; empty
	// means unrestricted.
	RestrictedTo []uuid.UUID
}

func (c *Course) Code() string {
	return c.Subject + " " + c.Number
}

// Level is the numeric prefix of the course number ("241W" -> 241).
func (c *Course) Level() int {
	n := 0
	for _, r := range c.Number {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func (c *Course) OfferedIn(term string) bool {
	for _, t := range c.TermsOffered {
		if t == term {
			return true
		}
	}
	return false
}

type Program struct {
	ID                   uuid.UUID
	Code                 string
	Name                 string
	TotalCreditsRequired Credits
}

type RequirementType string

const (
	RequirementCourseGroup RequirementType = "course_group"
	RequirementSubject     RequirementType = "subject_requirement"
	RequirementCredit      RequirementType = "credit_requirement"
	RequirementAverage     RequirementType = "average_requirement"
	RequirementLevel       RequirementType = "level_requirement"
)

func (t RequirementType) Valid() bool {
	switch t {
	case RequirementCourseGroup, RequirementSubject, RequirementCredit,
		RequirementAverage, RequirementLevel:
		return true
	}
	return false
}

// RequirementNode is one unit of a program's requirement tree. Nodes are
// addressed by id through the tree's arena; there are no embedded child
// pointers, so a careless catalog cannot smuggle a reference cycle past
// load-time validation.
type RequirementNode struct {
	ID        uuid.UUID
	ProgramID uuid.UUID
	ParentID  *uuid.UUID
	Name      string
	Type      RequirementType

	CoursesRequired          int
	CreditsRequired          Credits
	MinimumLevel             int
	MaximumCourses           int
	SubjectCodes             []string
	RequireDifferentSubjects bool
	MinimumSubjects          int

	Order    int
	Required bool
	Members  []uuid.UUID
}

// CatalogSnapshot is an immutable catalog view for one version. A new
// version is a new snapshot; in-flight evaluations keep reading the old
// one.
type CatalogSnapshot struct {
	Version        string
	Courses        map[uuid.UUID]*Course
	CoursesByCode  map[string]uuid.UUID
	Programs       map[uuid.UUID]*Program
	ProgramsByCode map[string]uuid.UUID
	// Requirements holds each program's nodes in load order.
	Requirements map[uuid.UUID][]*RequirementNode
}

func NewCatalogSnapshot(version string) *CatalogSnapshot {
	return &CatalogSnapshot{
		Version:        version,
		Courses:        map[uuid.UUID]*Course{},
		CoursesByCode:  map[string]uuid.UUID{},
		Programs:       map[uuid.UUID]*Program{},
		ProgramsByCode: map[string]uuid.UUID{},
		Requirements:   map[uuid.UUID][]*RequirementNode{},
	}
}

func (s *CatalogSnapshot) AddCourse(c *Course) {
	s.Courses[c.ID] = c
	s.CoursesByCode[c.Subject+c.Number] = c.ID
}

func (s *CatalogSnapshot) AddProgram(p *Program) {
	s.Programs[p.ID] = p
	s.ProgramsByCode[p.Code] = p.ID
}

func (s *CatalogSnapshot) Course(id uuid.UUID) *Course {
	return s.Courses[id]
}

// CourseByCode accepts codes with or without the display space, so
// "CS 135" and "CS135" name the same course.
func (s *CatalogSnapshot) CourseByCode(code string) *Course {
	id, ok := s.CoursesByCode[strings.ReplaceAll(code, " ", "")]
	if !ok {
		return nil
	}
	return s.Courses[id]
}

func (s *CatalogSnapshot) ProgramByCode(code string) *Program {
	id, ok := s.ProgramsByCode[code]
	if !ok {
		return nil
	}
	return s.Programs[id]
}

// sortedCourseIDs returns course ids ordered by course code so traversals
// and reported cycles come out the same on every run.
func (s *CatalogSnapshot) sortedCourseIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.Courses))
	for id := range s.Courses {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.Courses[ids[i]].Code() < s.Courses[ids[j]].Code()
	})
	return ids
}

// ActiveCourses returns the active catalog courses in code order.
func ActiveCourses(s *CatalogSnapshot) []*Course {
	var out []*Course
	for _, id := range s.sortedCourseIDs() {
		if course := s.Courses[id]; course.Active {
			out = append(out, course)
		}
	}
	return out
}

// CourseRecord is one row of a student's transcript snapshot.
type CourseRecord struct {
	CourseID uuid.UUID
	Status   CourseStatus
	Term     string
	Grade    *float64
}

// StudentHistory is a read-only per-student snapshot. Build one per
// evaluation call; the engine never mutates it.
type StudentHistory struct {
	StudentID uuid.UUID
	ProgramID uuid.UUID
	records   map[uuid.UUID]CourseRecord
	ordered   []CourseRecord
}

func NewStudentHistory(studentID, programID uuid.UUID, records []CourseRecord) *StudentHistory {
	h := &StudentHistory{
		StudentID: studentID,
		ProgramID: programID,
		records:   make(map[uuid.UUID]CourseRecord, len(records)),
		ordered:   make([]CourseRecord, 0, len(records)),
	}
	for _, r := range records {
		h.records[r.CourseID] = r
		h.ordered = append(h.ordered, r)
	}
	return h
}

func (h *StudentHistory) Records() []CourseRecord {
	return h.ordered
}

func (h *StudentHistory) StatusOf(courseID uuid.UUID) (CourseStatus, bool) {
	r, ok := h.records[courseID]
	if !ok {
		return "", false
	}
	return r.Status, true
}

func (h *StudentHistory) Record(courseID uuid.UUID) (CourseRecord, bool) {
	r, ok := h.records[courseID]
	return r, ok
}

func (h *StudentHistory) Completed(courseID uuid.UUID) bool {
	s, ok := h.StatusOf(courseID)
	return ok && s == StatusCompleted
}

func (h *StudentHistory) CompletedOrInProgress(courseID uuid.UUID) bool {
	s, ok := h.StatusOf(courseID)
	return ok && (s == StatusCompleted || s == StatusInProgress)
}

func (h *StudentHistory) PlannedInTerm(courseID uuid.UUID, term string) bool {
	r, ok := h.records[courseID]
	return ok && r.Status == StatusPlanned && r.Term == term
}

// CompletedSet is the completed-course id set used for prerequisite checks.
func (h *StudentHistory) CompletedSet() map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool)
	for id, r := range h.records {
		if r.Status == StatusCompleted {
			set[id] = true
		}
	}
	return set
}
