package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yudadh/dokumen-service/internal/models"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
)

const activePeriodCacheKey = "schedule:active_period"

type scheduleRepository interface {
	FindActivePeriod(ctx context.Context, now time.Time) (*models.ActivePeriod, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ScheduleServiceConfig tunes the active-period cache.
type ScheduleServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ScheduleService resolves whether a named stage (e.g. "pendaftaran",
// "verifikasi") is currently open. Schedule records are owned elsewhere and
// strictly read-only here, which makes the short-lived cache safe.
type ScheduleService struct {
	repo    scheduleRepository
	cache   scheduleCache
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ScheduleServiceConfig
}

// NewScheduleService constructs the service.
func NewScheduleService(repo scheduleRepository, cache scheduleCache, metrics *MetricsService, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	return &ScheduleService{repo: repo, cache: cache, metrics: metrics, logger: logger, cfg: cfg}
}

// ResolveActiveStage locates the currently active period, takes its first
// pathway period and finds the open stage whose name matches
// case-insensitively. It returns the pathway-period id for downstream use.
// Each way this can fail is reported as a distinct not-found cause.
func (s *ScheduleService) ResolveActiveStage(ctx context.Context, stageName string) (string, error) {
	now := time.Now()

	period, err := s.loadActivePeriod(ctx, now)
	if err != nil {
		return "", err
	}
	if period == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no enrollment period is currently running")
	}
	if len(period.PathwayPeriods) == 0 {
		return "", appErrors.Clone(appErrors.ErrNotFound, "the active period has no pathway period")
	}

	pathwayPeriod := period.PathwayPeriods[0]
	var stage *models.ScheduleStage
	for i := range pathwayPeriod.Stages {
		candidate := &pathwayPeriod.Stages[i]
		if strings.EqualFold(candidate.StageName, stageName) && !candidate.IsClosed {
			stage = candidate
			break
		}
	}
	if stage == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no open %s stage is scheduled", stageName))
	}
	if stage.StartsAt == nil || stage.EndsAt == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("the %s stage has no start or end time", stage.StageName))
	}
	if now.Before(*stage.StartsAt) || now.After(*stage.EndsAt) {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no %s stage is currently running", stage.StageName))
	}

	return pathwayPeriod.ID, nil
}

func (s *ScheduleService) loadActivePeriod(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
	if s.cacheEnabled() {
		var cached models.ActivePeriod
		err := s.cache.Get(ctx, activePeriodCacheKey, &cached)
		if err == nil {
			// The snapshot was fetched under an earlier instant; its windows
			// may have lapsed within the cache TTL.
			if cached.Covers(now) {
				s.recordCacheLookup(true)
				return &cached, nil
			}
			s.recordCacheLookup(false)
		} else {
			s.recordCacheLookup(false)
			if !errors.Is(err, appErrors.ErrCacheMiss) {
				s.logger.Warn("schedule cache read failed", zap.Error(err))
			}
		}
	}

	period, err := s.repo.FindActivePeriod(ctx, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active period")
	}

	if s.cacheEnabled() && period != nil {
		if err := s.cache.Set(ctx, activePeriodCacheKey, period, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("schedule cache write failed", zap.Error(err))
		}
	}
	return period, nil
}

func (s *ScheduleService) cacheEnabled() bool {
	return s.cfg.CacheEnabled && s.cache != nil
}

func (s *ScheduleService) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
