package models

import "time"

// RegistrationStatus reflects how far a registration has been verified.
// Only the two tiers touched by the document rollup are modeled here; the
// registration subsystem owns the remaining lifecycle.
type RegistrationStatus string

const (
	RegistrationStatusVerifSD  RegistrationStatus = "VERIF_SD"
	RegistrationStatusVerifSMP RegistrationStatus = "VERIF_SMP"
)

// Registration is one student's registration into a pathway-period. Its
// status is mutated only by the document rollup, never by handlers directly.
type Registration struct {
	ID              string             `db:"id" json:"registration_id"`
	StudentID       string             `db:"student_id" json:"student_id"`
	PathwayPeriodID string             `db:"pathway_period_id" json:"pathway_period_id"`
	Status          RegistrationStatus `db:"status" json:"status"`
	UpdatedAt       *time.Time         `db:"updated_at" json:"updated_at,omitempty"`
}

// RollupRegistrationStatus computes the registration status implied by the
// student's document set. When every document sits at the top verification
// tier the registration advances to VERIF_SMP; losing that condition while at
// VERIF_SMP demotes it to VERIF_SD; anything else leaves it untouched.
func RollupRegistrationStatus(current RegistrationStatus, statuses []DocumentStatus) (RegistrationStatus, bool) {
	allValid := len(statuses) > 0
	for _, s := range statuses {
		if s != DocumentStatusValidSMP {
			allValid = false
			break
		}
	}

	if allValid {
		if current == RegistrationStatusVerifSMP {
			return current, false
		}
		return RegistrationStatusVerifSMP, true
	}
	if current == RegistrationStatusVerifSMP {
		return RegistrationStatusVerifSD, true
	}
	return current, false
}
