package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/campusplan/advisor-backend/internal/engine"
	"github.com/campusplan/advisor-backend/internal/logger"
)

// AuditCache holds finished degree audits keyed by catalog version,
// program and student. Keys embed the catalog version, so a catalog write
// never serves a stale audit; old entries just expire.
type AuditCache interface {
	Get(ctx context.Context, version string, programID, studentID string) (*engine.DegreeAuditResult, bool)
	Set(ctx context.Context, version string, programID, studentID string, result *engine.DegreeAuditResult)
	Invalidate(ctx context.Context, studentID string)
	Close() error
}

type auditCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewAuditCache connects using REDIS_ADDR. A missing address is not an
// error: callers get a nil cache and skip caching.
func NewAuditCache(log *logger.Logger) (AuditCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	ttl := 15 * time.Minute
	if raw := strings.TrimSpace(os.Getenv("AUDIT_CACHE_TTL_MINUTES")); raw != "" {
		var minutes int
		if _, err := fmt.Sscanf(raw, "%d", &minutes); err == nil && minutes > 0 {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &auditCache{
		log: log.With("service", "RedisAuditCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func cacheKey(version, programID, studentID string) string {
	return fmt.Sprintf("audit:%s:%s:%s", version, programID, studentID)
}

func (ac *auditCache) Get(ctx context.Context, version, programID, studentID string) (*engine.DegreeAuditResult, bool) {
	raw, err := ac.rdb.Get(ctx, cacheKey(version, programID, studentID)).Bytes()
	if err != nil {
		return nil, false
	}
	var result engine.DegreeAuditResult
	if err := json.Unmarshal(raw, &result); err != nil {
		ac.log.Warn("Dropping undecodable cached audit", "error", err)
		return nil, false
	}
	return &result, true
}

func (ac *auditCache) Set(ctx context.Context, version, programID, studentID string, result *engine.DegreeAuditResult) {
	raw, err := json.Marshal(result)
	if err != nil {
		ac.log.Warn("Failed to encode audit for cache", "error", err)
		return
	}
	if err := ac.rdb.Set(ctx, cacheKey(version, programID, studentID), raw, ac.ttl).Err(); err != nil {
		ac.log.Warn("Failed to store audit in cache", "error", err)
	}
}

// Invalidate drops every cached audit for one student. Record writes call
// this so a fresh audit never waits out the TTL.
func (ac *auditCache) Invalidate(ctx context.Context, studentID string) {
	pattern := fmt.Sprintf("audit:*:*:%s", studentID)
	iter := ac.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := ac.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			ac.log.Warn("Failed to delete cached audit", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		ac.log.Warn("Audit cache scan failed", "error", err)
	}
}

func (ac *auditCache) Close() error {
	return ac.rdb.Close()
}
