package models

import "time"

// ScheduleStage is one named action window inside a pathway period, e.g.
// "pendaftaran" (submission) or "verifikasi" (verification).
type ScheduleStage struct {
	ID        string     `db:"id" json:"schedule_stage_id"`
	StageName string     `db:"stage_name" json:"stage_name"`
	IsClosed  bool       `db:"is_closed" json:"is_closed"`
	StartsAt  *time.Time `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt    *time.Time `db:"ends_at" json:"ends_at,omitempty"`
}

// ActivePathwayPeriod is a pathway period window together with its stages.
type ActivePathwayPeriod struct {
	ID       string          `db:"id" json:"pathway_period_id"`
	StartsAt time.Time       `db:"starts_at" json:"starts_at"`
	EndsAt   time.Time       `db:"ends_at" json:"ends_at"`
	Stages   []ScheduleStage `json:"stages"`
}

// ActivePeriod is the schedule tree for the period whose window, and all of
// whose pathway-period child windows, contain the query instant.
type ActivePeriod struct {
	PeriodID       string                `json:"period_id"`
	StartsAt       time.Time             `json:"starts_at"`
	EndsAt         time.Time             `json:"ends_at"`
	PathwayPeriods []ActivePathwayPeriod `json:"pathway_periods"`
}

// Covers reports whether the period window and every pathway-period window
// still contain the instant. A snapshot read back from a cache may have
// been fetched under an earlier instant, so its windows can have lapsed.
func (p *ActivePeriod) Covers(now time.Time) bool {
	if now.Before(p.StartsAt) || now.After(p.EndsAt) {
		return false
	}
	for i := range p.PathwayPeriods {
		pp := &p.PathwayPeriods[i]
		if now.Before(pp.StartsAt) || now.After(pp.EndsAt) {
			return false
		}
	}
	return true
}
