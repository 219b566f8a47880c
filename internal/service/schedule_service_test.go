package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudadh/dokumen-service/internal/models"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
)

type mockScheduleRepo struct {
	findFn func(ctx context.Context, now time.Time) (*models.ActivePeriod, error)
	calls  int
}

func (m *mockScheduleRepo) FindActivePeriod(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
	m.calls++
	return m.findFn(ctx, now)
}

type mockScheduleCache struct {
	entries  map[string][]byte
	setCalls int
}

func newMockScheduleCache() *mockScheduleCache {
	return &mockScheduleCache{entries: map[string][]byte{}}
}

func (m *mockScheduleCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockScheduleCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalls++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func openStagePeriod(stageName string, now time.Time) *models.ActivePeriod {
	start := now.Add(-time.Hour)
	end := now.Add(time.Hour)
	return &models.ActivePeriod{
		PeriodID: "period-1",
		StartsAt: start,
		EndsAt:   end,
		PathwayPeriods: []models.ActivePathwayPeriod{
			{
				ID:       "pp-1",
				StartsAt: start,
				EndsAt:   end,
				Stages: []models.ScheduleStage{
					{ID: "stage-1", StageName: stageName, StartsAt: &start, EndsAt: &end},
				},
			},
		},
	}
}

func TestResolveActiveStageSuccess(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			return openStagePeriod("pendaftaran", now), nil
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	id, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")

	require.NoError(t, err)
	assert.Equal(t, "pp-1", id)
}

func TestResolveActiveStageMatchesCaseInsensitively(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			return openStagePeriod("Verifikasi", now), nil
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	id, err := svc.ResolveActiveStage(context.Background(), "verifikasi")

	require.NoError(t, err)
	assert.Equal(t, "pp-1", id)
}

func TestResolveActiveStageNoPeriod(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	_, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")

	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "no enrollment period is currently running", appErr.Message)
}

func TestResolveActiveStageNoPathwayPeriod(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			return &models.ActivePeriod{PeriodID: "period-1"}, nil
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	_, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")

	require.Error(t, err)
	assert.Equal(t, "the active period has no pathway period", appErrors.FromError(err).Message)
}

func TestResolveActiveStageNoOpenStage(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			period := openStagePeriod("pendaftaran", now)
			period.PathwayPeriods[0].Stages[0].IsClosed = true
			return period, nil
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	_, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")

	require.Error(t, err)
	assert.Equal(t, "no open pendaftaran stage is scheduled", appErrors.FromError(err).Message)
}

func TestResolveActiveStageMissingWindow(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			period := openStagePeriod("verifikasi", now)
			period.PathwayPeriods[0].Stages[0].EndsAt = nil
			return period, nil
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	_, err := svc.ResolveActiveStage(context.Background(), "verifikasi")

	require.Error(t, err)
	assert.Equal(t, "the verifikasi stage has no start or end time", appErrors.FromError(err).Message)
}

func TestResolveActiveStageOutsideWindow(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			period := openStagePeriod("pendaftaran", now)
			past := now.Add(-48 * time.Hour)
			pastEnd := now.Add(-24 * time.Hour)
			period.PathwayPeriods[0].Stages[0].StartsAt = &past
			period.PathwayPeriods[0].Stages[0].EndsAt = &pastEnd
			return period, nil
		},
	}
	svc := NewScheduleService(repo, nil, nil, nil, ScheduleServiceConfig{})

	_, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")

	require.Error(t, err)
	assert.Equal(t, "no pendaftaran stage is currently running", appErrors.FromError(err).Message)
}

func TestResolveActiveStageUsesCache(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			return openStagePeriod("pendaftaran", now), nil
		},
	}
	cache := newMockScheduleCache()
	svc := NewScheduleService(repo, cache, nil, nil, ScheduleServiceConfig{CacheEnabled: true, CacheTTL: time.Minute})

	_, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.setCalls)

	_, err = svc.ResolveActiveStage(context.Background(), "pendaftaran")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestResolveActiveStageIgnoresLapsedCacheEntry(t *testing.T) {
	repo := &mockScheduleRepo{
		findFn: func(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
			return openStagePeriod("pendaftaran", now), nil
		},
	}
	cache := newMockScheduleCache()

	// A snapshot cached just before its windows closed must not keep the
	// stage open past them.
	lapsed := openStagePeriod("pendaftaran", time.Now().Add(-48*time.Hour))
	raw, err := json.Marshal(lapsed)
	require.NoError(t, err)
	cache.entries[activePeriodCacheKey] = raw

	svc := NewScheduleService(repo, cache, nil, nil, ScheduleServiceConfig{CacheEnabled: true, CacheTTL: time.Minute})

	id, err := svc.ResolveActiveStage(context.Background(), "pendaftaran")

	require.NoError(t, err)
	assert.Equal(t, "pp-1", id)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.setCalls)
}
