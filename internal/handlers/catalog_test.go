package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/types"
)

type stubCatalogService struct {
	departments  []*types.Department
	program      *types.Program
	requirements []*types.ProgramRequirement
}

func (s *stubCatalogService) Snapshot(ctx context.Context) (*engine.CatalogSnapshot, *engine.CourseGraph, error) {
	return nil, nil, nil
}

func (s *stubCatalogService) Invalidate() {}

func (s *stubCatalogService) CreateCourse(ctx context.Context, course *types.Course, groups []*types.PrerequisiteGroup, members []*types.Prerequisite) (*types.Course, error) {
	return course, nil
}

func (s *stubCatalogService) CreateProgram(ctx context.Context, program *types.Program, requirements []*types.ProgramRequirement, reqCourses []*types.RequirementCourse) (*types.Program, error) {
	return program, nil
}

func (s *stubCatalogService) SetCourseActive(ctx context.Context, courseCode string, active bool) error {
	return nil
}

func (s *stubCatalogService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	return nil, nil
}

func (s *stubCatalogService) ListPrograms(ctx context.Context) ([]*types.Program, error) {
	return nil, nil
}

func (s *stubCatalogService) ListDepartments(ctx context.Context) ([]*types.Department, error) {
	return s.departments, nil
}

func (s *stubCatalogService) GetProgramByCode(ctx context.Context, code string) (*types.Program, []*types.ProgramRequirement, error) {
	if s.program == nil || s.program.Code != code {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return s.program, s.requirements, nil
}

func testCatalogRouter(t *testing.T, svc *stubCatalogService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := NewCatalogHandler(log, svc)
	router := gin.New()
	router.GET("/departments", h.ListDepartments)
	router.GET("/programs/:code", h.GetProgram)
	return router
}

func TestListDepartments(t *testing.T) {
	svc := &stubCatalogService{
		departments: []*types.Department{
			{ID: uuid.New(), Code: "CS", Name: "Computer Science"},
			{ID: uuid.New(), Code: "MATH", Name: "Mathematics"},
		},
	}
	router := testCatalogRouter(t, svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/departments", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Departments []*types.Department `json:"departments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Departments) != 2 || body.Departments[0].Code != "CS" {
		t.Fatalf("unexpected departments %#v", body.Departments)
	}
}

func TestGetProgram(t *testing.T) {
	program := &types.Program{ID: uuid.New(), Code: "BCS", Name: "Bachelor of Computer Science"}
	svc := &stubCatalogService{
		program: program,
		requirements: []*types.ProgramRequirement{
			{ID: uuid.New(), ProgramID: program.ID, Name: "Core", Type: "course_group"},
		},
	}
	router := testCatalogRouter(t, svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/programs/bcs", nil)
	router.ServeHTTP(rec, req)

	// The path parameter is normalized before the lookup.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Program      *types.Program              `json:"program"`
		Requirements []*types.ProgramRequirement `json:"requirements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Program == nil || body.Program.Code != "BCS" || len(body.Requirements) != 1 {
		t.Fatalf("unexpected payload %s", rec.Body.String())
	}
}

func TestGetProgramUnknownCode(t *testing.T) {
	router := testCatalogRouter(t, &stubCatalogService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/programs/NOPE", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Error.Code != "unknown_program" {
		t.Fatalf("expected unknown_program, got %q", envelope.Error.Code)
	}
}
