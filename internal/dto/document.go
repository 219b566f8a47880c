package dto

import "github.com/yudadh/dokumen-service/internal/models"

// UploadDocumentResponse is returned after a successful document upload.
type UploadDocumentResponse struct {
	DocumentID     string                `json:"document_id"`
	DocumentTypeID string                `json:"document_type_id"`
	URL            string                `json:"url"`
	Status         models.DocumentStatus `json:"status"`
}

// StudentDocumentView is one document as seen by a specific viewer role: the
// access URL is guaranteed fresh and the annotation is already redacted.
type StudentDocumentView struct {
	DocumentID     string                `json:"document_id"`
	StudentID      string                `json:"student_id"`
	DocumentTypeID string                `json:"document_type_id"`
	TypeName       string                `json:"type_name"`
	URL            string                `json:"url"`
	Status         models.DocumentStatus `json:"status"`
	Annotation     *string               `json:"annotation"`
}

// StudentDocumentsResponse bundles a student's documents with their name.
type StudentDocumentsResponse struct {
	Documents   []StudentDocumentView `json:"documents"`
	StudentName string                `json:"student_name"`
}

// UpdateDocumentStatusRequest re-classifies one document's validation state.
type UpdateDocumentStatusRequest struct {
	Status     models.DocumentStatus `json:"status" validate:"required,oneof=BELUM_VALID VALID_SD VALID_SMP"`
	Annotation *string               `json:"annotation"`
}

// UpdateDocumentStatusResponse reports the applied status change.
type UpdateDocumentStatusResponse struct {
	DocumentID string                `json:"document_id"`
	StudentID  string                `json:"student_id"`
	Status     models.DocumentStatus `json:"status"`
}

// DeleteDocumentResponse acknowledges a deleted student document.
type DeleteDocumentResponse struct {
	DocumentID string `json:"document_id"`
}
