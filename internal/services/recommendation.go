package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/normalization"
)

type RecommendationService interface {
	Recommend(ctx context.Context, userID uuid.UUID, term string, limit int) ([]engine.Recommendation, error)
}

type recommendationService struct {
	log            *logger.Logger
	catalogService CatalogService
	studentService StudentService
	auditService   AuditService
}

func NewRecommendationService(
	log *logger.Logger,
	catalogService CatalogService,
	studentService StudentService,
	auditService AuditService,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		log:            serviceLog,
		catalogService: catalogService,
		studentService: studentService,
		auditService:   auditService,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, userID uuid.UUID, term string, limit int) ([]engine.Recommendation, error) {
	snap, graph, err := rs.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := rs.studentService.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	hist, err := rs.studentService.History(ctx, profile)
	if err != nil {
		return nil, err
	}
	audit, err := rs.auditService.RunAudit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.Recommend(snap, graph, *audit, hist, normalization.NormalizeTerm(term), limit), nil
}
