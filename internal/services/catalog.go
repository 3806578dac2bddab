package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/repos"
	"github.com/campusplan/advisor-backend/internal/types"
)

// CatalogService loads the course catalog into an immutable engine
// snapshot and hands out the matching course graph. Snapshots are cached
// per catalog version; any write through this service bumps the version so
// the next read rebuilds.
type CatalogService interface {
	Snapshot(ctx context.Context) (*engine.CatalogSnapshot, *engine.CourseGraph, error)
	Invalidate()

	CreateCourse(ctx context.Context, course *types.Course, groups []*types.PrerequisiteGroup, members []*types.Prerequisite) (*types.Course, error)
	CreateProgram(ctx context.Context, program *types.Program, requirements []*types.ProgramRequirement, reqCourses []*types.RequirementCourse) (*types.Program, error)
	SetCourseActive(ctx context.Context, courseCode string, active bool) error
	ListCourses(ctx context.Context) ([]*types.Course, error)
	ListPrograms(ctx context.Context) ([]*types.Program, error)
	ListDepartments(ctx context.Context) ([]*types.Department, error)
	GetProgramByCode(ctx context.Context, code string) (*types.Program, []*types.ProgramRequirement, error)
}

type catalogService struct {
	db             *gorm.DB
	log            *logger.Logger
	departmentRepo repos.DepartmentRepo
	courseRepo     repos.CourseRepo
	programRepo    repos.ProgramRepo
	versionRepo    repos.CatalogVersionRepo

	mu       sync.RWMutex
	snapshot *engine.CatalogSnapshot
	graph    *engine.CourseGraph
	version  int64
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	departmentRepo repos.DepartmentRepo,
	courseRepo repos.CourseRepo,
	programRepo repos.ProgramRepo,
	versionRepo repos.CatalogVersionRepo,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:             db,
		log:            serviceLog,
		departmentRepo: departmentRepo,
		courseRepo:     courseRepo,
		programRepo:    programRepo,
		versionRepo:    versionRepo,
	}
}

func (cs *catalogService) Snapshot(ctx context.Context) (*engine.CatalogSnapshot, *engine.CourseGraph, error) {
	version, err := cs.versionRepo.Current(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog version: %w", err)
	}

	cs.mu.RLock()
	if cs.snapshot != nil && cs.version == version {
		snap, graph := cs.snapshot, cs.graph
		cs.mu.RUnlock()
		return snap, graph, nil
	}
	cs.mu.RUnlock()

	snap, graph, err := cs.build(ctx, version)
	if err != nil {
		return nil, nil, err
	}

	cs.mu.Lock()
	cs.snapshot = snap
	cs.graph = graph
	cs.version = version
	cs.mu.Unlock()
	return snap, graph, nil
}

func (cs *catalogService) Invalidate() {
	cs.mu.Lock()
	cs.snapshot = nil
	cs.graph = nil
	cs.mu.Unlock()
}

// build loads every catalog table and assembles the snapshot. A
// prerequisite cycle fails the build; the previous cached snapshot stays
// in service until a corrected catalog loads.
func (cs *catalogService) build(ctx context.Context, version int64) (*engine.CatalogSnapshot, *engine.CourseGraph, error) {
	snap := engine.NewCatalogSnapshot(strconv.FormatInt(version, 10))

	courses, err := cs.courseRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load courses: %w", err)
	}
	for _, row := range courses {
		snap.AddCourse(courseToEngine(row))
	}

	groups, err := cs.courseRepo.GetAllPrerequisiteGroups(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load prerequisite groups: %w", err)
	}
	members, err := cs.courseRepo.GetAllPrerequisites(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load prerequisites: %w", err)
	}
	membersByGroup := map[uuid.UUID][]uuid.UUID{}
	for _, m := range members {
		membersByGroup[m.GroupID] = append(membersByGroup[m.GroupID], m.CourseID)
	}
	for _, g := range groups {
		course := snap.Course(g.CourseID)
		if course == nil {
			cs.log.Warn("Prerequisite group references unknown course", "group_id", g.ID, "course_id", g.CourseID)
			continue
		}
		course.Groups = append(course.Groups, engine.PrereqGroup{
			ID:       g.ID,
			Name:     g.Name,
			Required: g.Required,
			Members:  membersByGroup[g.ID],
		})
	}

	coreqs, err := cs.courseRepo.GetAllCorequisites(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load corequisites: %w", err)
	}
	for _, c := range coreqs {
		if course := snap.Course(c.CourseID); course != nil {
			course.Corequisites = append(course.Corequisites, c.RequiredID)
		}
	}

	antis, err := cs.courseRepo.GetAllAntirequisites(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load antirequisites: %w", err)
	}
	for _, a := range antis {
		if course := snap.Course(a.CourseID); course != nil {
			course.Antirequisites = append(course.Antirequisites, a.ExcludedID)
		}
	}

	restrictions, err := cs.courseRepo.GetAllMajorRestrictions(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load major restrictions: %w", err)
	}
	for _, r := range restrictions {
		if course := snap.Course(r.CourseID); course != nil {
			course.RestrictedTo = append(course.RestrictedTo, r.ProgramID)
		}
	}

	programs, err := cs.programRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load programs: %w", err)
	}
	for _, p := range programs {
		snap.AddProgram(&engine.Program{
			ID:                   p.ID,
			Code:                 p.Code,
			Name:                 p.Name,
			TotalCreditsRequired: engine.CreditsFromFloat(p.TotalCreditsRequired),
		})
	}

	requirements, err := cs.programRepo.GetAllRequirements(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load program requirements: %w", err)
	}
	reqCourses, err := cs.programRepo.GetAllRequirementCourses(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load requirement courses: %w", err)
	}
	reqMembers := map[uuid.UUID][]uuid.UUID{}
	for _, rc := range reqCourses {
		reqMembers[rc.RequirementID] = append(reqMembers[rc.RequirementID], rc.CourseID)
	}
	for _, row := range requirements {
		node := requirementToEngine(row, reqMembers[row.ID])
		snap.Requirements[row.ProgramID] = append(snap.Requirements[row.ProgramID], node)
	}

	graph, err := engine.BuildCourseGraph(snap)
	if err != nil {
		cs.log.Error("Catalog snapshot rejected", "version", version, "error", err)
		return nil, nil, err
	}

	cs.log.Info("Catalog snapshot built",
		"version", version,
		"courses", len(courses),
		"programs", len(programs))
	return snap, graph, nil
}

func courseToEngine(row *types.Course) *engine.Course {
	var terms []string
	if len(row.TermsOffered) > 0 {
		_ = json.Unmarshal(row.TermsOffered, &terms)
	}
	return &engine.Course{
		ID:           row.ID,
		Subject:      row.Subject,
		Number:       row.Number,
		Title:        row.Title,
		Credits:      engine.CreditsFromFloat(row.Credits),
		Active:       row.Active,
		TermsOffered: terms,
	}
}

func requirementToEngine(row *types.ProgramRequirement, members []uuid.UUID) *engine.RequirementNode {
	var subjects []string
	if len(row.SubjectCodes) > 0 {
		_ = json.Unmarshal(row.SubjectCodes, &subjects)
	}
	return &engine.RequirementNode{
		ID:                       row.ID,
		ProgramID:                row.ProgramID,
		ParentID:                 row.ParentID,
		Name:                     row.Name,
		Type:                     engine.RequirementType(row.Type),
		CoursesRequired:          row.CoursesRequired,
		CreditsRequired:          engine.CreditsFromFloat(row.CreditsRequired),
		MinimumLevel:             row.MinimumLevel,
		MaximumCourses:           row.MaximumCourses,
		SubjectCodes:             subjects,
		RequireDifferentSubjects: row.RequireDifferentSubjects,
		MinimumSubjects:          row.MinimumSubjects,
		Order:                    row.Order,
		Required:                 row.Required,
		Members:                  members,
	}
}

func (cs *catalogService) CreateCourse(ctx context.Context, course *types.Course, groups []*types.PrerequisiteGroup, members []*types.Prerequisite) (*types.Course, error) {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.courseRepo.Create(ctx, tx, []*types.Course{course}); err != nil {
			return fmt.Errorf("failed to create course: %w", err)
		}
		if _, err := cs.courseRepo.CreatePrerequisiteGroups(ctx, tx, groups); err != nil {
			return fmt.Errorf("failed to create prerequisite groups: %w", err)
		}
		if _, err := cs.courseRepo.CreatePrerequisites(ctx, tx, members); err != nil {
			return fmt.Errorf("failed to create prerequisites: %w", err)
		}
		if _, err := cs.versionRepo.Bump(ctx, tx); err != nil {
			return fmt.Errorf("failed to bump catalog version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cs.Invalidate()
	return course, nil
}

func (cs *catalogService) CreateProgram(ctx context.Context, program *types.Program, requirements []*types.ProgramRequirement, reqCourses []*types.RequirementCourse) (*types.Program, error) {
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.programRepo.Create(ctx, tx, []*types.Program{program}); err != nil {
			return fmt.Errorf("failed to create program: %w", err)
		}
		if _, err := cs.programRepo.CreateRequirements(ctx, tx, requirements); err != nil {
			return fmt.Errorf("failed to create program requirements: %w", err)
		}
		if _, err := cs.programRepo.CreateRequirementCourses(ctx, tx, reqCourses); err != nil {
			return fmt.Errorf("failed to create requirement courses: %w", err)
		}
		if _, err := cs.versionRepo.Bump(ctx, tx); err != nil {
			return fmt.Errorf("failed to bump catalog version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	cs.Invalidate()
	return program, nil
}

func (cs *catalogService) SetCourseActive(ctx context.Context, courseCode string, active bool) error {
	snap, _, err := cs.Snapshot(ctx)
	if err != nil {
		return err
	}
	course := snap.CourseByCode(courseCode)
	if course == nil {
		return fmt.Errorf("unknown course code %q", courseCode)
	}
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.courseRepo.SetActive(ctx, tx, course.ID, active); err != nil {
			return fmt.Errorf("failed to update course active flag: %w", err)
		}
		if _, err := cs.versionRepo.Bump(ctx, tx); err != nil {
			return fmt.Errorf("failed to bump catalog version: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	cs.Invalidate()
	return nil
}

func (cs *catalogService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	return cs.courseRepo.GetAll(ctx, nil)
}

func (cs *catalogService) ListPrograms(ctx context.Context) ([]*types.Program, error) {
	return cs.programRepo.GetAll(ctx, nil)
}

func (cs *catalogService) ListDepartments(ctx context.Context) ([]*types.Department, error) {
	return cs.departmentRepo.GetAll(ctx, nil)
}

func (cs *catalogService) GetProgramByCode(ctx context.Context, code string) (*types.Program, []*types.ProgramRequirement, error) {
	program, err := cs.programRepo.GetByCode(ctx, nil, code)
	if err != nil {
		return nil, nil, err
	}
	requirements, err := cs.programRepo.GetRequirementsByProgram(ctx, nil, program.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load program requirements: %w", err)
	}
	return program, requirements, nil
}
