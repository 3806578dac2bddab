package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/db"
	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/normalization"
	"github.com/campusplan/advisor-backend/internal/repos"
	"github.com/campusplan/advisor-backend/internal/types"
	"github.com/campusplan/advisor-backend/internal/utils"
)

// Fixture file shape. Courses reference each other and departments by
// code, requirements reference their parent by key, so fixtures stay
// readable without embedding UUIDs.
type fixtureFile struct {
	Departments []fixtureDepartment `yaml:"departments"`
	Courses     []fixtureCourse     `yaml:"courses"`
	Programs    []fixtureProgram    `yaml:"programs"`
	Offerings   []fixtureOffering   `yaml:"offerings"`
	Students    []fixtureStudent    `yaml:"students"`
}

type fixtureDepartment struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Faculty string `yaml:"faculty"`
}

type fixtureCourse struct {
	Department     string         `yaml:"department"`
	Subject        string         `yaml:"subject"`
	Number         string         `yaml:"number"`
	Title          string         `yaml:"title"`
	Description    string         `yaml:"description"`
	Credits        float64        `yaml:"credits"`
	TermsOffered   []string       `yaml:"terms_offered"`
	Prerequisites  []fixtureGroup `yaml:"prerequisites"`
	Corequisites   []string       `yaml:"corequisites"`
	Antirequisites []string       `yaml:"antirequisites"`
	RestrictedTo   []string       `yaml:"restricted_to"`
}

type fixtureGroup struct {
	Name     string   `yaml:"name"`
	Required *bool    `yaml:"required"`
	Courses  []string `yaml:"courses"`
}

type fixtureProgram struct {
	Department   string               `yaml:"department"`
	Code         string               `yaml:"code"`
	Name         string               `yaml:"name"`
	Description  string               `yaml:"description"`
	TotalCredits float64              `yaml:"total_credits"`
	Requirements []fixtureRequirement `yaml:"requirements"`
}

type fixtureRequirement struct {
	Key                      string   `yaml:"key"`
	Parent                   string   `yaml:"parent"`
	Name                     string   `yaml:"name"`
	Type                     string   `yaml:"type"`
	CoursesRequired          int      `yaml:"courses_required"`
	CreditsRequired          float64  `yaml:"credits_required"`
	MinimumLevel             int      `yaml:"minimum_level"`
	MaximumCourses           int      `yaml:"maximum_courses"`
	SubjectCodes             []string `yaml:"subject_codes"`
	RequireDifferentSubjects bool     `yaml:"require_different_subjects"`
	MinimumSubjects          int      `yaml:"minimum_subjects"`
	Order                    int      `yaml:"order"`
	Required                 *bool    `yaml:"required"`
	Courses                  []string `yaml:"courses"`
}

type fixtureOffering struct {
	Course     string        `yaml:"course"`
	Term       string        `yaml:"term"`
	Year       int           `yaml:"year"`
	Section    string        `yaml:"section"`
	Instructor string        `yaml:"instructor"`
	Capacity   int           `yaml:"capacity"`
	Slots      []fixtureSlot `yaml:"slots"`
}

type fixtureSlot struct {
	Day      string `yaml:"day"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Location string `yaml:"location"`
}

type fixtureStudent struct {
	Email         string          `yaml:"email"`
	Password      string          `yaml:"password"`
	FirstName     string          `yaml:"first_name"`
	LastName      string          `yaml:"last_name"`
	Role          string          `yaml:"role"`
	Program       string          `yaml:"program"`
	StudentNumber string          `yaml:"student_number"`
	EntryYear     int             `yaml:"entry_year"`
	Records       []fixtureRecord `yaml:"records"`
}

type fixtureRecord struct {
	Course string   `yaml:"course"`
	Status string   `yaml:"status"`
	Term   string   `yaml:"term"`
	Year   int      `yaml:"year"`
	Grade  *float64 `yaml:"grade"`
}

type seeder struct {
	log            *logger.Logger
	departmentRepo repos.DepartmentRepo
	courseRepo     repos.CourseRepo
	programRepo    repos.ProgramRepo
	offeringRepo   repos.OfferingRepo
	userRepo       repos.UserRepo
	profileRepo    repos.StudentProfileRepo
	recordRepo     repos.StudentRecordRepo
	versionRepo    repos.CatalogVersionRepo

	departmentsByCode map[string]uuid.UUID
	coursesByCode     map[string]uuid.UUID
	programsByCode    map[string]uuid.UUID
}

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	fixturePath := utils.GetEnv("SEED_FILE", "fixtures/catalog.yaml", log)
	raw, err := os.ReadFile(fixturePath)
	if err != nil {
		log.Error("Could not read fixture file", "path", fixturePath, "error", err)
		os.Exit(1)
	}
	var fixtures fixtureFile
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		log.Error("Could not parse fixture file", "path", fixturePath, "error", err)
		os.Exit(1)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	s := &seeder{
		log:               log,
		departmentRepo:    repos.NewDepartmentRepo(thePG, log),
		courseRepo:        repos.NewCourseRepo(thePG, log),
		programRepo:       repos.NewProgramRepo(thePG, log),
		offeringRepo:      repos.NewOfferingRepo(thePG, log),
		userRepo:          repos.NewUserRepo(thePG, log),
		profileRepo:       repos.NewStudentProfileRepo(thePG, log),
		recordRepo:        repos.NewStudentRecordRepo(thePG, log),
		versionRepo:       repos.NewCatalogVersionRepo(thePG, log),
		departmentsByCode: map[string]uuid.UUID{},
		coursesByCode:     map[string]uuid.UUID{},
		programsByCode:    map[string]uuid.UUID{},
	}

	ctx := context.Background()
	err = thePG.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.seedDepartments(ctx, tx, fixtures.Departments); err != nil {
			return err
		}
		if err := s.seedCourses(ctx, tx, fixtures.Courses); err != nil {
			return err
		}
		if err := s.seedPrograms(ctx, tx, fixtures.Programs); err != nil {
			return err
		}
		if err := s.seedRestrictions(ctx, tx, fixtures.Courses); err != nil {
			return err
		}
		if err := s.seedOfferings(ctx, tx, fixtures.Offerings); err != nil {
			return err
		}
		if err := s.seedStudents(ctx, tx, fixtures.Students); err != nil {
			return err
		}
		if _, err := s.versionRepo.Bump(ctx, tx); err != nil {
			return fmt.Errorf("failed to bump catalog version: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("Seeding complete",
		"departments", len(fixtures.Departments),
		"courses", len(fixtures.Courses),
		"programs", len(fixtures.Programs),
		"offerings", len(fixtures.Offerings),
		"students", len(fixtures.Students))
}

func (s *seeder) seedDepartments(ctx context.Context, tx *gorm.DB, fixtures []fixtureDepartment) error {
	var departments []*types.Department
	for _, f := range fixtures {
		departments = append(departments, &types.Department{
			ID:      uuid.New(),
			Code:    normalization.NormalizeCode(f.Code),
			Name:    f.Name,
			Faculty: f.Faculty,
		})
	}
	if len(departments) == 0 {
		return nil
	}
	created, err := s.departmentRepo.Create(ctx, tx, departments)
	if err != nil {
		return fmt.Errorf("failed to create departments: %w", err)
	}
	for _, d := range created {
		s.departmentsByCode[d.Code] = d.ID
	}
	return nil
}

func (s *seeder) seedCourses(ctx context.Context, tx *gorm.DB, fixtures []fixtureCourse) error {
	// Two passes: courses first so prerequisite members can point at any
	// course in the file regardless of order.
	var courses []*types.Course
	for _, f := range fixtures {
		deptID, ok := s.departmentsByCode[normalization.NormalizeCode(f.Department)]
		if !ok {
			return fmt.Errorf("course %s %s references unknown department %q", f.Subject, f.Number, f.Department)
		}
		var terms []string
		for _, t := range f.TermsOffered {
			terms = append(terms, normalization.NormalizeTerm(t))
		}
		termsJSON, err := json.Marshal(terms)
		if err != nil {
			return err
		}
		courses = append(courses, &types.Course{
			ID:           uuid.New(),
			DepartmentID: deptID,
			Subject:      normalization.NormalizeCode(f.Subject),
			Number:       normalization.NormalizeCode(f.Number),
			Title:        f.Title,
			Description:  f.Description,
			Credits:      f.Credits,
			Active:       true,
			TermsOffered: datatypes.JSON(termsJSON),
		})
	}
	if len(courses) == 0 {
		return nil
	}
	created, err := s.courseRepo.Create(ctx, tx, courses)
	if err != nil {
		return fmt.Errorf("failed to create courses: %w", err)
	}
	for _, c := range created {
		s.coursesByCode[c.Subject+c.Number] = c.ID
	}

	var groups []*types.PrerequisiteGroup
	var members []*types.Prerequisite
	var coreqs []*types.Corequisite
	var antis []*types.Antirequisite
	for i, f := range fixtures {
		courseID := created[i].ID
		for _, g := range f.Prerequisites {
			group := &types.PrerequisiteGroup{
				ID:       uuid.New(),
				CourseID: courseID,
				Name:     g.Name,
				Required: g.Required == nil || *g.Required,
			}
			groups = append(groups, group)
			for _, code := range g.Courses {
				memberID, err := s.courseID(code)
				if err != nil {
					return fmt.Errorf("prerequisite of %s%s: %w", f.Subject, f.Number, err)
				}
				members = append(members, &types.Prerequisite{
					ID:       uuid.New(),
					GroupID:  group.ID,
					CourseID: memberID,
				})
			}
		}
		for _, code := range f.Corequisites {
			requiredID, err := s.courseID(code)
			if err != nil {
				return fmt.Errorf("corequisite of %s%s: %w", f.Subject, f.Number, err)
			}
			coreqs = append(coreqs, &types.Corequisite{ID: uuid.New(), CourseID: courseID, RequiredID: requiredID})
		}
		for _, code := range f.Antirequisites {
			excludedID, err := s.courseID(code)
			if err != nil {
				return fmt.Errorf("antirequisite of %s%s: %w", f.Subject, f.Number, err)
			}
			antis = append(antis, &types.Antirequisite{ID: uuid.New(), CourseID: courseID, ExcludedID: excludedID})
		}
	}
	if len(groups) > 0 {
		if _, err := s.courseRepo.CreatePrerequisiteGroups(ctx, tx, groups); err != nil {
			return fmt.Errorf("failed to create prerequisite groups: %w", err)
		}
	}
	if len(members) > 0 {
		if _, err := s.courseRepo.CreatePrerequisites(ctx, tx, members); err != nil {
			return fmt.Errorf("failed to create prerequisites: %w", err)
		}
	}
	if len(coreqs) > 0 {
		if _, err := s.courseRepo.CreateCorequisites(ctx, tx, coreqs); err != nil {
			return fmt.Errorf("failed to create corequisites: %w", err)
		}
	}
	if len(antis) > 0 {
		if _, err := s.courseRepo.CreateAntirequisites(ctx, tx, antis); err != nil {
			return fmt.Errorf("failed to create antirequisites: %w", err)
		}
	}
	return nil
}

// seedRestrictions runs after programs so restricted_to can name them.
func (s *seeder) seedRestrictions(ctx context.Context, tx *gorm.DB, fixtures []fixtureCourse) error {
	var restrictions []*types.MajorRestriction
	for _, f := range fixtures {
		if len(f.RestrictedTo) == 0 {
			continue
		}
		courseID, err := s.courseID(f.Subject + f.Number)
		if err != nil {
			return err
		}
		for _, programCode := range f.RestrictedTo {
			programID, ok := s.programsByCode[normalization.NormalizeCode(programCode)]
			if !ok {
				return fmt.Errorf("course %s%s restricted to unknown program %q", f.Subject, f.Number, programCode)
			}
			restrictions = append(restrictions, &types.MajorRestriction{
				ID:        uuid.New(),
				CourseID:  courseID,
				ProgramID: programID,
			})
		}
	}
	if len(restrictions) == 0 {
		return nil
	}
	if _, err := s.courseRepo.CreateMajorRestrictions(ctx, tx, restrictions); err != nil {
		return fmt.Errorf("failed to create major restrictions: %w", err)
	}
	return nil
}

func (s *seeder) seedPrograms(ctx context.Context, tx *gorm.DB, fixtures []fixtureProgram) error {
	for _, f := range fixtures {
		deptID, ok := s.departmentsByCode[normalization.NormalizeCode(f.Department)]
		if !ok {
			return fmt.Errorf("program %s references unknown department %q", f.Code, f.Department)
		}
		program := &types.Program{
			ID:                   uuid.New(),
			DepartmentID:         deptID,
			Code:                 normalization.NormalizeCode(f.Code),
			Name:                 f.Name,
			Description:          f.Description,
			TotalCreditsRequired: f.TotalCredits,
		}
		if _, err := s.programRepo.Create(ctx, tx, []*types.Program{program}); err != nil {
			return fmt.Errorf("failed to create program %s: %w", f.Code, err)
		}
		s.programsByCode[program.Code] = program.ID

		idsByKey := map[string]uuid.UUID{}
		var requirements []*types.ProgramRequirement
		var reqCourses []*types.RequirementCourse
		for _, r := range f.Requirements {
			if !engine.RequirementType(r.Type).Valid() {
				return fmt.Errorf("program %s requirement %q has unknown type %q", f.Code, r.Name, r.Type)
			}
			req := &types.ProgramRequirement{
				ID:                       uuid.New(),
				ProgramID:                program.ID,
				Name:                     r.Name,
				Type:                     r.Type,
				CoursesRequired:          r.CoursesRequired,
				CreditsRequired:          r.CreditsRequired,
				MinimumLevel:             r.MinimumLevel,
				MaximumCourses:           r.MaximumCourses,
				RequireDifferentSubjects: r.RequireDifferentSubjects,
				MinimumSubjects:          r.MinimumSubjects,
				Order:                    r.Order,
				Required:                 r.Required == nil || *r.Required,
			}
			if len(r.SubjectCodes) > 0 {
				var subjects []string
				for _, code := range r.SubjectCodes {
					subjects = append(subjects, normalization.NormalizeCode(code))
				}
				subjectsJSON, err := json.Marshal(subjects)
				if err != nil {
					return err
				}
				req.SubjectCodes = datatypes.JSON(subjectsJSON)
			}
			if r.Parent != "" {
				parentID, ok := idsByKey[r.Parent]
				if !ok {
					return fmt.Errorf("program %s requirement %q references unknown parent key %q", f.Code, r.Name, r.Parent)
				}
				req.ParentID = &parentID
			}
			if r.Key != "" {
				idsByKey[r.Key] = req.ID
			}
			requirements = append(requirements, req)
			for _, code := range r.Courses {
				courseID, err := s.courseID(code)
				if err != nil {
					return fmt.Errorf("program %s requirement %q: %w", f.Code, r.Name, err)
				}
				reqCourses = append(reqCourses, &types.RequirementCourse{
					ID:            uuid.New(),
					RequirementID: req.ID,
					CourseID:      courseID,
				})
			}
		}
		if len(requirements) > 0 {
			if _, err := s.programRepo.CreateRequirements(ctx, tx, requirements); err != nil {
				return fmt.Errorf("failed to create requirements for %s: %w", f.Code, err)
			}
		}
		if len(reqCourses) > 0 {
			if _, err := s.programRepo.CreateRequirementCourses(ctx, tx, reqCourses); err != nil {
				return fmt.Errorf("failed to create requirement courses for %s: %w", f.Code, err)
			}
		}
	}
	return nil
}

func (s *seeder) seedOfferings(ctx context.Context, tx *gorm.DB, fixtures []fixtureOffering) error {
	for _, f := range fixtures {
		courseID, err := s.courseID(f.Course)
		if err != nil {
			return fmt.Errorf("offering %s %s %d: %w", f.Course, f.Term, f.Year, err)
		}
		offering := &types.CourseOffering{
			ID:         uuid.New(),
			CourseID:   courseID,
			Term:       normalization.NormalizeTerm(f.Term),
			Year:       f.Year,
			Section:    f.Section,
			Instructor: f.Instructor,
			Capacity:   f.Capacity,
		}
		if _, err := s.offeringRepo.Create(ctx, tx, []*types.CourseOffering{offering}); err != nil {
			return fmt.Errorf("failed to create offering %s %s: %w", f.Course, f.Section, err)
		}
		var slots []*types.TimeSlot
		for _, slot := range f.Slots {
			start, err := engine.ParseClock(slot.Start)
			if err != nil {
				return fmt.Errorf("offering %s %s slot start: %w", f.Course, f.Section, err)
			}
			end, err := engine.ParseClock(slot.End)
			if err != nil {
				return fmt.Errorf("offering %s %s slot end: %w", f.Course, f.Section, err)
			}
			slots = append(slots, &types.TimeSlot{
				ID:           uuid.New(),
				OfferingID:   offering.ID,
				Day:          slot.Day,
				StartMinutes: start,
				EndMinutes:   end,
				Location:     slot.Location,
			})
		}
		if len(slots) > 0 {
			if _, err := s.offeringRepo.CreateSlots(ctx, tx, slots); err != nil {
				return fmt.Errorf("failed to create slots for %s %s: %w", f.Course, f.Section, err)
			}
		}
	}
	return nil
}

func (s *seeder) seedStudents(ctx context.Context, tx *gorm.DB, fixtures []fixtureStudent) error {
	for _, f := range fixtures {
		user := &types.User{
			ID:        uuid.New(),
			Email:     normalization.NormalizeEmail(f.Email),
			Password:  f.Password,
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Role:      f.Role,
		}
		if user.Role == "" {
			user.Role = types.RoleStudent
		}
		if err := utils.HashPassword(ctx, s.log, user); err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", f.Email, err)
		}
		if _, err := s.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return fmt.Errorf("failed to create user %s: %w", f.Email, err)
		}
		if f.Program == "" {
			continue
		}
		programID, ok := s.programsByCode[normalization.NormalizeCode(f.Program)]
		if !ok {
			return fmt.Errorf("student %s references unknown program %q", f.Email, f.Program)
		}
		profile := &types.StudentProfile{
			ID:            uuid.New(),
			UserID:        user.ID,
			ProgramID:     programID,
			StudentNumber: f.StudentNumber,
			EntryYear:     f.EntryYear,
		}
		if _, err := s.profileRepo.Create(ctx, tx, []*types.StudentProfile{profile}); err != nil {
			return fmt.Errorf("failed to create profile for %s: %w", f.Email, err)
		}
		var records []*types.StudentCourseRecord
		for _, r := range f.Records {
			courseID, err := s.courseID(r.Course)
			if err != nil {
				return fmt.Errorf("record for %s: %w", f.Email, err)
			}
			if types.StatusRank(r.Status) == 0 {
				return fmt.Errorf("record for %s has unknown status %q", f.Email, r.Status)
			}
			records = append(records, &types.StudentCourseRecord{
				ID:        uuid.New(),
				StudentID: profile.ID,
				CourseID:  courseID,
				Status:    r.Status,
				Term:      normalization.NormalizeTerm(r.Term),
				Year:      r.Year,
				Grade:     r.Grade,
			})
		}
		if len(records) > 0 {
			if _, err := s.recordRepo.Create(ctx, tx, records); err != nil {
				return fmt.Errorf("failed to create records for %s: %w", f.Email, err)
			}
		}
	}
	return nil
}

func (s *seeder) courseID(code string) (uuid.UUID, error) {
	id, ok := s.coursesByCode[normalization.NormalizeCode(code)]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown course code %q", code)
	}
	return id, nil
}
