package models

import "time"

// DocumentStatus tracks how far a document has advanced through verification.
type DocumentStatus string

const (
	DocumentStatusUnvalidated DocumentStatus = "BELUM_VALID"
	DocumentStatusValidSD     DocumentStatus = "VALID_SD"
	DocumentStatusValidSMP    DocumentStatus = "VALID_SMP"
)

// Valid reports whether the status is one of the known wire values.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusUnvalidated, DocumentStatusValidSD, DocumentStatusValidSMP:
		return true
	}
	return false
}

// StudentDocument is one uploaded document belonging to one student. There is
// at most one row per (student_id, document_type_id); re-uploads overwrite it.
type StudentDocument struct {
	ID             string         `db:"id" json:"document_id"`
	StudentID      string         `db:"student_id" json:"student_id"`
	DocumentTypeID string         `db:"document_type_id" json:"document_type_id"`
	FilePath       string         `db:"file_path" json:"-"`
	AccessURL      string         `db:"access_url" json:"url"`
	URLExpiresAt   time.Time      `db:"url_expires_at" json:"-"`
	Status         DocumentStatus `db:"status" json:"status"`
	Annotation     *string        `db:"annotation" json:"annotation,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// StudentDocumentDetail joins the master catalog entry name onto the record.
type StudentDocumentDetail struct {
	StudentDocument
	TypeName string `db:"type_name" json:"type_name"`
}

// MasterDocument is a catalog entry describing a class of required document.
type MasterDocument struct {
	ID          string     `db:"id" json:"document_type_id"`
	Name        string     `db:"name" json:"name"`
	IsCommon    bool       `db:"is_common" json:"is_common"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// PathwayDocument links an enrollment pathway to a required document type.
type PathwayDocument struct {
	ID             string    `db:"id" json:"pathway_document_id"`
	PathwayID      string    `db:"pathway_id" json:"pathway_id"`
	DocumentTypeID string    `db:"document_type_id" json:"document_type_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// PathwayDocumentDetail carries the joined catalog and pathway names.
type PathwayDocumentDetail struct {
	ID             string `db:"id" json:"pathway_document_id"`
	DocumentTypeID string `db:"document_type_id" json:"document_type_id"`
	TypeName       string `db:"type_name" json:"type_name"`
	PathwayName    string `db:"pathway_name" json:"pathway_name"`
}
