package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/services"
)

type ScheduleHandler struct {
	log             *logger.Logger
	scheduleService services.ScheduleService
}

func NewScheduleHandler(log *logger.Logger, scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		log:             log.With("handler", "ScheduleHandler"),
		scheduleService: scheduleService,
	}
}

// POST /schedule/validate
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req struct {
		OfferingIDs []uuid.UUID `json:"offering_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	report, err := h.scheduleService.Validate(c.Request.Context(), req.OfferingIDs)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "schedule_error", err)
		return
	}
	RespondOK(c, report)
}

// POST /schedule/can-add
func (h *ScheduleHandler) CanAdd(c *gin.Context) {
	var req struct {
		OfferingIDs []uuid.UUID `json:"offering_ids"`
		CandidateID uuid.UUID   `json:"candidate_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	result, err := h.scheduleService.CanAdd(c.Request.Context(), req.OfferingIDs, req.CandidateID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "schedule_error", err)
		return
	}
	RespondOK(c, result)
}

// GET /offerings?term=fall&year=2026
func (h *ScheduleHandler) ListOfferings(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	offerings, err := h.scheduleService.ListOfferings(c.Request.Context(), c.Query("term"), year)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "schedule_error", err)
		return
	}
	RespondOK(c, gin.H{"offerings": offerings})
}
