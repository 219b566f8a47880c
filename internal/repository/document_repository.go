package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yudadh/dokumen-service/internal/models"
)

// DocumentRepository provides persistence for student document records.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs the repository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert inserts a document record or, when the student already has one for
// the document type, replaces the stored file reference. A replaced record
// restarts its review: the status is reset and any annotation is cleared.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *models.StudentDocument) (*models.StudentDocument, error) {
	const query = `
INSERT INTO student_documents (id, student_id, document_type_id, file_path, access_url, url_expires_at, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (student_id, document_type_id) DO UPDATE SET
	file_path = EXCLUDED.file_path,
	access_url = EXCLUDED.access_url,
	url_expires_at = EXCLUDED.url_expires_at,
	status = EXCLUDED.status,
	annotation = NULL,
	updated_at = EXCLUDED.created_at
RETURNING id, student_id, document_type_id, file_path, access_url, url_expires_at, status, annotation, created_at, updated_at`

	var saved models.StudentDocument
	err := r.db.GetContext(ctx, &saved, query,
		uuid.NewString(), doc.StudentID, doc.DocumentTypeID,
		doc.FilePath, doc.AccessURL, doc.URLExpiresAt, doc.Status, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("upsert student document: %w", err)
	}
	return &saved, nil
}

// FindByID fetches one document record. Returns sql.ErrNoRows when absent.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.StudentDocument, error) {
	const query = `
SELECT id, student_id, document_type_id, file_path, access_url, url_expires_at, status, annotation, created_at, updated_at
FROM student_documents
WHERE id = $1`

	var doc models.StudentDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get student document: %w", err)
	}
	return &doc, nil
}

// ListByStudent returns all documents a student has uploaded, joined with the
// catalog name of each document type.
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error) {
	const query = `
SELECT
	sd.id, sd.student_id, sd.document_type_id, sd.file_path, sd.access_url,
	sd.url_expires_at, sd.status, sd.annotation, sd.created_at, sd.updated_at,
	md.name AS type_name
FROM student_documents sd
JOIN master_documents md ON md.id = sd.document_type_id
WHERE sd.student_id = $1
ORDER BY md.name ASC`

	var docs []models.StudentDocumentDetail
	if err := r.db.SelectContext(ctx, &docs, query, studentID); err != nil {
		return nil, fmt.Errorf("list student documents: %w", err)
	}
	return docs, nil
}

// UpdateAccessURL persists a refreshed signed link.
func (r *DocumentRepository) UpdateAccessURL(ctx context.Context, id, url string, expiresAt time.Time) error {
	const query = `UPDATE student_documents SET access_url = $1, url_expires_at = $2, updated_at = $3 WHERE id = $4`
	if _, err := r.db.ExecContext(ctx, query, url, expiresAt, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update document access url: %w", err)
	}
	return nil
}

// UpdateStatus re-classifies a document without touching any registration.
// The annotation column is always written: a nil annotation clears the
// stored one. Returns sql.ErrNoRows when the document no longer exists.
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status models.DocumentStatus, annotation *string) error {
	const query = `UPDATE student_documents SET status = $1, annotation = $2, updated_at = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, status, annotation, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusWithRollup applies a status change and recomputes the
// registration status from the student's full document set, both inside one
// transaction. The registration row is locked first so concurrent reviews of
// the same student serialize. As with UpdateStatus, a nil annotation clears
// the stored one, and sql.ErrNoRows is returned when the document is gone.
func (r *DocumentRepository) UpdateStatusWithRollup(ctx context.Context, id string, status models.DocumentStatus, annotation *string, registrationID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var registration struct {
		StudentID string                    `db:"student_id"`
		Status    models.RegistrationStatus `db:"status"`
	}
	const lockQuery = `SELECT student_id, status FROM registrations WHERE id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &registration, lockQuery, registrationID); err != nil {
		return fmt.Errorf("lock registration: %w", err)
	}

	now := time.Now().UTC()
	const updateDoc = `UPDATE student_documents SET status = $1, annotation = $2, updated_at = $3 WHERE id = $4`
	var res sql.Result
	if res, err = tx.ExecContext(ctx, updateDoc, status, annotation, now, id); err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	var statuses []models.DocumentStatus
	const siblingQuery = `SELECT status FROM student_documents WHERE student_id = $1`
	if err = tx.SelectContext(ctx, &statuses, siblingQuery, registration.StudentID); err != nil {
		return fmt.Errorf("list sibling statuses: %w", err)
	}

	if next, changed := models.RollupRegistrationStatus(registration.Status, statuses); changed {
		const updateReg = `UPDATE registrations SET status = $1, updated_at = $2 WHERE id = $3`
		if _, err = tx.ExecContext(ctx, updateReg, next, now, registrationID); err != nil {
			return fmt.Errorf("update registration status: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit status transaction: %w", err)
	}
	return nil
}

// Delete removes a document record.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM student_documents WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student document: %w", err)
	}
	return nil
}
