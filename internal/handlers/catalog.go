package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/normalization"
	"github.com/campusplan/advisor-backend/internal/services"
	"github.com/campusplan/advisor-backend/internal/types"
)

type CatalogHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:            log.With("handler", "CatalogHandler"),
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogService.ListCourses(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "catalog_error", err)
		return
	}
	RespondOK(c, gin.H{"courses": courses})
}

func (h *CatalogHandler) ListPrograms(c *gin.Context) {
	programs, err := h.catalogService.ListPrograms(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "catalog_error", err)
		return
	}
	RespondOK(c, gin.H{"programs": programs})
}

func (h *CatalogHandler) ListDepartments(c *gin.Context) {
	departments, err := h.catalogService.ListDepartments(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "catalog_error", err)
		return
	}
	RespondOK(c, gin.H{"departments": departments})
}

func (h *CatalogHandler) GetProgram(c *gin.Context) {
	code := normalization.NormalizeCode(c.Param("code"))
	program, requirements, err := h.catalogService.GetProgramByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "unknown_program", fmt.Errorf("no program with code %q", code))
			return
		}
		RespondError(c, http.StatusInternalServerError, "catalog_error", err)
		return
	}
	RespondOK(c, gin.H{"program": program, "requirements": requirements})
}

type prerequisiteGroupRequest struct {
	Name      string      `json:"name"`
	Required  *bool       `json:"required"`
	CourseIDs []uuid.UUID `json:"course_ids"`
}

type createCourseRequest struct {
	DepartmentID uuid.UUID                  `json:"department_id"`
	Subject      string                     `json:"subject"`
	Number       string                     `json:"number"`
	Title        string                     `json:"title"`
	Description  string                     `json:"description"`
	Credits      float64                    `json:"credits"`
	TermsOffered []string                   `json:"terms_offered"`
	Groups       []prerequisiteGroupRequest `json:"prerequisite_groups"`
}

func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	terms := make([]string, 0, len(req.TermsOffered))
	for _, t := range req.TermsOffered {
		terms = append(terms, normalization.NormalizeTerm(t))
	}
	termsJSON, _ := json.Marshal(terms)

	course := &types.Course{
		ID:           uuid.New(),
		DepartmentID: req.DepartmentID,
		Subject:      normalization.NormalizeCode(req.Subject),
		Number:       normalization.NormalizeCode(req.Number),
		Title:        req.Title,
		Description:  req.Description,
		Credits:      req.Credits,
		Active:       true,
		TermsOffered: datatypes.JSON(termsJSON),
	}

	var groups []*types.PrerequisiteGroup
	var members []*types.Prerequisite
	for _, g := range req.Groups {
		required := true
		if g.Required != nil {
			required = *g.Required
		}
		group := &types.PrerequisiteGroup{
			ID:       uuid.New(),
			CourseID: course.ID,
			Name:     g.Name,
			Required: required,
		}
		groups = append(groups, group)
		for _, memberID := range g.CourseIDs {
			members = append(members, &types.Prerequisite{
				ID:       uuid.New(),
				GroupID:  group.ID,
				CourseID: memberID,
			})
		}
	}

	created, err := h.catalogService.CreateCourse(c.Request.Context(), course, groups, members)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_course_failed", err)
		return
	}
	RespondOK(c, gin.H{"course": created})
}

type requirementRequest struct {
	Key                      string      `json:"key"`
	ParentKey                string      `json:"parent_key"`
	Name                     string      `json:"name"`
	Type                     string      `json:"type"`
	CoursesRequired          int         `json:"courses_required"`
	CreditsRequired          float64     `json:"credits_required"`
	MinimumLevel             int         `json:"minimum_level"`
	MaximumCourses           int         `json:"maximum_courses"`
	SubjectCodes             []string    `json:"subject_codes"`
	RequireDifferentSubjects bool        `json:"require_different_subjects"`
	MinimumSubjects          int         `json:"minimum_subjects"`
	Order                    int         `json:"order"`
	Required                 *bool       `json:"required"`
	CourseIDs                []uuid.UUID `json:"course_ids"`
}

type createProgramRequest struct {
	DepartmentID         uuid.UUID            `json:"department_id"`
	Code                 string               `json:"code"`
	Name                 string               `json:"name"`
	Description          string               `json:"description"`
	TotalCreditsRequired float64              `json:"total_credits_required"`
	Requirements         []requirementRequest `json:"requirements"`
}

func (h *CatalogHandler) CreateProgram(c *gin.Context) {
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	program := &types.Program{
		ID:                   uuid.New(),
		DepartmentID:         req.DepartmentID,
		Code:                 normalization.NormalizeCode(req.Code),
		Name:                 req.Name,
		Description:          req.Description,
		TotalCreditsRequired: req.TotalCreditsRequired,
	}

	// Requirements reference their parents by request-local key, so the
	// tree arrives in one payload.
	idsByKey := map[string]uuid.UUID{}
	for _, r := range req.Requirements {
		if r.Key != "" {
			idsByKey[r.Key] = uuid.New()
		}
	}

	var requirements []*types.ProgramRequirement
	var reqCourses []*types.RequirementCourse
	for _, r := range req.Requirements {
		if !engine.RequirementType(r.Type).Valid() {
			RespondError(c, http.StatusBadRequest, "invalid_requirement_type", fmt.Errorf("unknown requirement type %q", r.Type))
			return
		}
		nodeID := idsByKey[r.Key]
		if nodeID == uuid.Nil {
			nodeID = uuid.New()
		}
		var parentID *uuid.UUID
		if r.ParentKey != "" {
			parent, ok := idsByKey[r.ParentKey]
			if !ok {
				RespondError(c, http.StatusBadRequest, "invalid_parent_key", fmt.Errorf("unknown parent key %q", r.ParentKey))
				return
			}
			parentID = &parent
		}
		required := true
		if r.Required != nil {
			required = *r.Required
		}
		subjectsJSON, _ := json.Marshal(r.SubjectCodes)
		requirements = append(requirements, &types.ProgramRequirement{
			ID:                       nodeID,
			ProgramID:                program.ID,
			ParentID:                 parentID,
			Name:                     r.Name,
			Type:                     r.Type,
			CoursesRequired:          r.CoursesRequired,
			CreditsRequired:          r.CreditsRequired,
			MinimumLevel:             r.MinimumLevel,
			MaximumCourses:           r.MaximumCourses,
			SubjectCodes:             datatypes.JSON(subjectsJSON),
			RequireDifferentSubjects: r.RequireDifferentSubjects,
			MinimumSubjects:          r.MinimumSubjects,
			Order:                    r.Order,
			Required:                 required,
		})
		for _, courseID := range r.CourseIDs {
			reqCourses = append(reqCourses, &types.RequirementCourse{
				ID:            uuid.New(),
				RequirementID: nodeID,
				CourseID:      courseID,
			})
		}
	}

	created, err := h.catalogService.CreateProgram(c.Request.Context(), program, requirements, reqCourses)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_program_failed", err)
		return
	}
	RespondOK(c, gin.H{"program": created})
}

func (h *CatalogHandler) SetCourseActive(c *gin.Context) {
	code := normalization.NormalizeCode(c.Param("code"))
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.catalogService.SetCourseActive(c.Request.Context(), code, *req.Active); err != nil {
		RespondError(c, http.StatusBadRequest, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
