package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/yudadh/dokumen-service/internal/models"
)

// RegistrationRepository reads registration rows owned by the enrollment
// subsystem. Status writes happen only inside the document rollup
// transaction, never here.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// FindByStudentAndPathwayPeriod fetches the student's registration in the
// given pathway period. Returns sql.ErrNoRows when the student is not
// registered there.
func (r *RegistrationRepository) FindByStudentAndPathwayPeriod(ctx context.Context, studentID, pathwayPeriodID string) (*models.Registration, error) {
	const query = `
SELECT id, student_id, pathway_period_id, status, updated_at
FROM registrations
WHERE student_id = $1 AND pathway_period_id = $2`

	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, studentID, pathwayPeriodID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &registration, nil
}
