package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yudadh/dokumen-service/internal/models"
)

// ScheduleRepository reads the enrollment schedule tree. The schedule is
// owned by the admin subsystem and read-only here.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindActivePeriod locates the period whose window contains the instant and
// whose pathway-period windows all contain it too, then loads the pathway
// periods with their stages. Returns sql.ErrNoRows when no period qualifies.
func (r *ScheduleRepository) FindActivePeriod(ctx context.Context, now time.Time) (*models.ActivePeriod, error) {
	const periodQuery = `
SELECT p.id, p.starts_at, p.ends_at
FROM periods p
WHERE p.starts_at <= $1 AND p.ends_at >= $1
	AND NOT EXISTS (
		SELECT 1 FROM pathway_periods pp
		WHERE pp.period_id = p.id
			AND (pp.starts_at > $1 OR pp.ends_at < $1)
	)
ORDER BY p.starts_at DESC
LIMIT 1`

	var period struct {
		ID       string    `db:"id"`
		StartsAt time.Time `db:"starts_at"`
		EndsAt   time.Time `db:"ends_at"`
	}
	if err := r.db.GetContext(ctx, &period, periodQuery, now); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get active period: %w", err)
	}

	const pathwayQuery = `
SELECT id, starts_at, ends_at
FROM pathway_periods
WHERE period_id = $1
ORDER BY starts_at ASC`

	var pathwayPeriods []models.ActivePathwayPeriod
	if err := r.db.SelectContext(ctx, &pathwayPeriods, pathwayQuery, period.ID); err != nil {
		return nil, fmt.Errorf("list pathway periods: %w", err)
	}

	const stageQuery = `
SELECT id, stage_name, is_closed, starts_at, ends_at
FROM schedule_stages
WHERE pathway_period_id = $1
ORDER BY starts_at ASC`

	for i := range pathwayPeriods {
		if err := r.db.SelectContext(ctx, &pathwayPeriods[i].Stages, stageQuery, pathwayPeriods[i].ID); err != nil {
			return nil, fmt.Errorf("list schedule stages: %w", err)
		}
	}

	return &models.ActivePeriod{
		PeriodID:       period.ID,
		StartsAt:       period.StartsAt,
		EndsAt:         period.EndsAt,
		PathwayPeriods: pathwayPeriods,
	}, nil
}
