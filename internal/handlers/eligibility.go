package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/requestdata"
	"github.com/campusplan/advisor-backend/internal/services"
)

type EligibilityHandler struct {
	log                *logger.Logger
	eligibilityService services.EligibilityService
}

func NewEligibilityHandler(log *logger.Logger, eligibilityService services.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{
		log:                log.With("handler", "EligibilityHandler"),
		eligibilityService: eligibilityService,
	}
}

// GET /eligibility/:code?term=fall
func (h *EligibilityHandler) CheckCourse(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("missing request data"))
		return
	}
	term := c.Query("term")
	if term == "" {
		RespondError(c, http.StatusBadRequest, "missing_term", fmt.Errorf("term query parameter is required"))
		return
	}
	result, err := h.eligibilityService.CheckCourse(c.Request.Context(), rd.UserID, c.Param("code"), term)
	if err != nil {
		respondEligibilityError(c, err)
		return
	}
	RespondOK(c, result)
}

// GET /eligibility?term=fall
func (h *EligibilityHandler) CheckAll(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("missing request data"))
		return
	}
	term := c.Query("term")
	if term == "" {
		RespondError(c, http.StatusBadRequest, "missing_term", fmt.Errorf("term query parameter is required"))
		return
	}
	results, err := h.eligibilityService.CheckAll(c.Request.Context(), rd.UserID, term)
	if err != nil {
		respondEligibilityError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}

// GET /courses/:code/prerequisites
func (h *EligibilityHandler) PrerequisiteChain(c *gin.Context) {
	chain, err := h.eligibilityService.PrerequisiteChain(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondEligibilityError(c, err)
		return
	}
	RespondOK(c, gin.H{"chain": chain})
}

// respondEligibilityError maps catalog configuration failures to 500s with
// the config code, anything else to a 400.
func respondEligibilityError(c *gin.Context, err error) {
	var cfgErr *engine.ConfigurationError
	if errors.As(err, &cfgErr) {
		RespondError(c, http.StatusInternalServerError, cfgErr.Kind, err)
		return
	}
	RespondError(c, http.StatusBadRequest, "eligibility_error", err)
}
