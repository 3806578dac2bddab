package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campusplan/advisor-backend/internal/clients/redis"
	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
)

const batchAuditConcurrency = 4

// AuditService runs degree audits. Results are cached in redis under the
// catalog version so repeat views are cheap; the cache is optional and a
// nil cache just means every audit computes.
type AuditService interface {
	RunAudit(ctx context.Context, userID uuid.UUID) (*engine.DegreeAuditResult, error)
	BatchAudit(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*engine.DegreeAuditResult, error)
}

type auditService struct {
	log            *logger.Logger
	catalogService CatalogService
	studentService StudentService
	cache          redis.AuditCache
}

func NewAuditService(
	log *logger.Logger,
	catalogService CatalogService,
	studentService StudentService,
	cache redis.AuditCache,
) AuditService {
	serviceLog := log.With("service", "AuditService")
	return &auditService{
		log:            serviceLog,
		catalogService: catalogService,
		studentService: studentService,
		cache:          cache,
	}
}

func (as *auditService) RunAudit(ctx context.Context, userID uuid.UUID) (*engine.DegreeAuditResult, error) {
	snap, _, err := as.catalogService.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := as.studentService.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}

	if as.cache != nil {
		if cached, ok := as.cache.Get(ctx, snap.Version, profile.ProgramID.String(), profile.ID.String()); ok {
			return cached, nil
		}
	}

	hist, err := as.studentService.History(ctx, profile)
	if err != nil {
		return nil, err
	}
	tree, err := engine.BuildRequirementTree(snap, profile.ProgramID)
	if err != nil {
		return nil, err
	}
	result := tree.Evaluate(hist)

	if as.cache != nil {
		as.cache.Set(ctx, snap.Version, profile.ProgramID.String(), profile.ID.String(), &result)
	}
	return &result, nil
}

// BatchAudit runs audits for an advisor's cohort with bounded parallelism.
// One failing student fails the batch.
func (as *auditService) BatchAudit(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*engine.DegreeAuditResult, error) {
	results := make(map[uuid.UUID]*engine.DegreeAuditResult, len(userIDs))
	type keyed struct {
		userID uuid.UUID
		result *engine.DegreeAuditResult
	}
	out := make(chan keyed, len(userIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchAuditConcurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			result, err := as.RunAudit(gctx, userID)
			if err != nil {
				return fmt.Errorf("audit for user %s: %w", userID, err)
			}
			out <- keyed{userID: userID, result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)
	for item := range out {
		results[item.userID] = item.result
	}
	return results, nil
}
