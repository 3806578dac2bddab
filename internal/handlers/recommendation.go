package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/requestdata"
	"github.com/campusplan/advisor-backend/internal/services"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

// GET /recommendations?term=fall&limit=5
func (h *RecommendationHandler) Recommend(c *gin.Context) {
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
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = parsed
	}
	recommendations, err := h.recSvc.Recommend(c.Request.Context(), rd.UserID, term, limit)
	if err != nil {
		respondEligibilityError(c, err)
		return
	}
	RespondOK(c, gin.H{"recommendations": recommendations})
}
