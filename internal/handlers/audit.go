package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/requestdata"
	"github.com/campusplan/advisor-backend/internal/services"
	"github.com/campusplan/advisor-backend/internal/types"
)

type AuditHandler struct {
	log          *logger.Logger
	auditService services.AuditService
}

func NewAuditHandler(log *logger.Logger, auditService services.AuditService) *AuditHandler {
	return &AuditHandler{
		log:          log.With("handler", "AuditHandler"),
		auditService: auditService,
	}
}

// GET /audit
func (h *AuditHandler) RunAudit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("missing request data"))
		return
	}
	result, err := h.auditService.RunAudit(c.Request.Context(), rd.UserID)
	if err != nil {
		respondEligibilityError(c, err)
		return
	}
	RespondOK(c, result)
}

// POST /audit/batch — advisors only.
func (h *AuditHandler) BatchAudit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "no_request_data", fmt.Errorf("missing request data"))
		return
	}
	if rd.Role != types.RoleAdvisor && rd.Role != types.RoleAdmin {
		RespondError(c, http.StatusForbidden, "forbidden", fmt.Errorf("advisor role required"))
		return
	}
	var req struct {
		UserIDs []uuid.UUID `json:"user_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	results, err := h.auditService.BatchAudit(c.Request.Context(), req.UserIDs)
	if err != nil {
		respondEligibilityError(c, err)
		return
	}
	RespondOK(c, gin.H{"results": results})
}
