package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/normalization"
	"github.com/campusplan/advisor-backend/internal/requestdata"
	"github.com/campusplan/advisor-backend/internal/services"
	"github.com/campusplan/advisor-backend/internal/types"
)

type StudentHandler struct {
	log            *logger.Logger
	studentService services.StudentService
}

func NewStudentHandler(log *logger.Logger, studentService services.StudentService) *StudentHandler {
	return &StudentHandler{
		log:            log.With("handler", "StudentHandler"),
		studentService: studentService,
	}
}

func (h *StudentHandler) profile(c *gin.Context) (*types.StudentProfile, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("missing request data"))
		return nil, false
	}
	profile, err := h.studentService.GetProfileByUserID(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "no_student_profile", err)
		return nil, false
	}
	return profile, true
}

// POST /students/profile
func (h *StudentHandler) CreateProfile(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("missing request data"))
		return
	}
	var req struct {
		ProgramID     uuid.UUID `json:"program_id"`
		StudentNumber string    `json:"student_number"`
		EntryYear     int       `json:"entry_year"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	profile, err := h.studentService.CreateProfile(c.Request.Context(), &types.StudentProfile{
		UserID:        rd.UserID,
		ProgramID:     req.ProgramID,
		StudentNumber: req.StudentNumber,
		EntryYear:     req.EntryYear,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_profile_failed", err)
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

// GET /students/profile
func (h *StudentHandler) GetProfile(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	RespondOK(c, gin.H{"profile": profile})
}

// PUT /students/profile/program
func (h *StudentHandler) ChangeProgram(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	var req struct {
		ProgramID uuid.UUID `json:"program_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.studentService.ChangeProgram(c.Request.Context(), profile.ID, req.ProgramID); err != nil {
		RespondError(c, http.StatusBadRequest, "change_program_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}

// GET /students/records
func (h *StudentHandler) ListRecords(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	records, err := h.studentService.ListRecords(c.Request.Context(), profile.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "records_error", err)
		return
	}
	RespondOK(c, gin.H{"records": records})
}

// POST /students/records
func (h *StudentHandler) AddRecord(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	var req struct {
		CourseID uuid.UUID `json:"course_id"`
		Status   string    `json:"status"`
		Term     string    `json:"term"`
		Year     int       `json:"year"`
		Grade    *float64  `json:"grade"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	record, err := h.studentService.AddRecord(c.Request.Context(), &types.StudentCourseRecord{
		StudentID: profile.ID,
		CourseID:  req.CourseID,
		Status:    req.Status,
		Term:      normalization.NormalizeTerm(req.Term),
		Year:      req.Year,
		Grade:     req.Grade,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "add_record_failed", err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

// PUT /students/records/:courseID
func (h *StudentHandler) UpdateRecord(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req struct {
		Status string   `json:"status"`
		Grade  *float64 `json:"grade"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	record, err := h.studentService.UpdateRecordStatus(c.Request.Context(), profile.ID, courseID, req.Status, req.Grade)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_record_failed", err)
		return
	}
	RespondOK(c, gin.H{"record": record})
}

// DELETE /students/records/:courseID
func (h *StudentHandler) DeleteRecord(c *gin.Context) {
	profile, ok := h.profile(c)
	if !ok {
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	if err := h.studentService.DeleteRecord(c.Request.Context(), profile.ID, courseID); err != nil {
		RespondError(c, http.StatusBadRequest, "delete_record_failed", err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
