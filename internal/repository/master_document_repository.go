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

// MasterDocumentRepository provides persistence for the document catalog.
type MasterDocumentRepository struct {
	db *sqlx.DB
}

// NewMasterDocumentRepository constructs the repository.
func NewMasterDocumentRepository(db *sqlx.DB) *MasterDocumentRepository {
	return &MasterDocumentRepository{db: db}
}

// Create inserts a catalog entry and fills in its generated fields.
func (r *MasterDocumentRepository) Create(ctx context.Context, doc *models.MasterDocument) error {
	const query = `
INSERT INTO master_documents (id, name, is_common, description, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query, uuid.NewString(), doc.Name, doc.IsCommon, doc.Description, time.Now().UTC())
	if err := row.Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return fmt.Errorf("insert master document: %w", err)
	}
	return nil
}

// Update renames or re-describes a catalog entry. Returns sql.ErrNoRows when
// the entry does not exist.
func (r *MasterDocumentRepository) Update(ctx context.Context, id, name string, description *string) error {
	const query = `UPDATE master_documents SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, name, description, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update master document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update master document: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindAll returns the full catalog ordered by name.
func (r *MasterDocumentRepository) FindAll(ctx context.Context) ([]models.MasterDocument, error) {
	const query = `
SELECT id, name, is_common, description, created_at, updated_at
FROM master_documents
ORDER BY name ASC`

	var docs []models.MasterDocument
	if err := r.db.SelectContext(ctx, &docs, query); err != nil {
		return nil, fmt.Errorf("list master documents: %w", err)
	}
	return docs, nil
}

// FindByID fetches one catalog entry. Returns sql.ErrNoRows when absent.
func (r *MasterDocumentRepository) FindByID(ctx context.Context, id string) (*models.MasterDocument, error) {
	const query = `
SELECT id, name, is_common, description, created_at, updated_at
FROM master_documents
WHERE id = $1`

	var doc models.MasterDocument
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get master document: %w", err)
	}
	return &doc, nil
}

// Delete removes a catalog entry. Returns sql.ErrNoRows when absent.
func (r *MasterDocumentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM master_documents WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete master document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete master document: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
