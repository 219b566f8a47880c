package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/yudadh/dokumen-service/internal/models"
)

// PathwayDocumentRepository persists links between pathways and required
// document types.
type PathwayDocumentRepository struct {
	db *sqlx.DB
}

// NewPathwayDocumentRepository constructs the repository.
func NewPathwayDocumentRepository(db *sqlx.DB) *PathwayDocumentRepository {
	return &PathwayDocumentRepository{db: db}
}

// Create inserts a pathway-document link and fills in its generated fields.
func (r *PathwayDocumentRepository) Create(ctx context.Context, link *models.PathwayDocument) error {
	const query = `
INSERT INTO pathway_documents (id, pathway_id, document_type_id, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query, uuid.NewString(), link.PathwayID, link.DocumentTypeID, time.Now().UTC())
	if err := row.Scan(&link.ID, &link.CreatedAt); err != nil {
		return fmt.Errorf("insert pathway document: %w", err)
	}
	return nil
}

// List returns every pathway link joined with the pathway and catalog names.
func (r *PathwayDocumentRepository) List(ctx context.Context) ([]models.PathwayDocumentDetail, error) {
	const query = `
SELECT
	pd.id,
	pd.document_type_id,
	md.name AS type_name,
	p.name AS pathway_name
FROM pathway_documents pd
JOIN master_documents md ON md.id = pd.document_type_id
JOIN pathways p ON p.id = pd.pathway_id
ORDER BY p.name ASC, md.name ASC`

	var links []models.PathwayDocumentDetail
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("list pathway documents: %w", err)
	}
	return links, nil
}
