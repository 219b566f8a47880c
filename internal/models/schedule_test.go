package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func activePeriodAround(now time.Time) *ActivePeriod {
	return &ActivePeriod{
		PeriodID: "period-1",
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		PathwayPeriods: []ActivePathwayPeriod{
			{ID: "pp-1", StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)},
		},
	}
}

func TestActivePeriodCoversInstantInsideWindows(t *testing.T) {
	now := time.Now()
	assert.True(t, activePeriodAround(now).Covers(now))
}

func TestActivePeriodDoesNotCoverAfterPeriodEnd(t *testing.T) {
	now := time.Now()
	period := activePeriodAround(now)
	period.EndsAt = now.Add(-time.Minute)
	assert.False(t, period.Covers(now))
}

func TestActivePeriodDoesNotCoverOutsidePathwayWindow(t *testing.T) {
	now := time.Now()
	period := activePeriodAround(now)
	period.PathwayPeriods[0].EndsAt = now.Add(-time.Minute)
	assert.False(t, period.Covers(now))
}
