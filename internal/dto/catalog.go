package dto

// CreateMasterDocumentRequest registers a new catalog entry.
type CreateMasterDocumentRequest struct {
	Name        string  `json:"name" validate:"required"`
	IsCommon    bool    `json:"is_common"`
	Description *string `json:"description"`
}

// UpdateMasterDocumentRequest renames or re-describes a catalog entry.
type UpdateMasterDocumentRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// CreatePathwayDocumentRequest links a pathway to a required document type.
type CreatePathwayDocumentRequest struct {
	PathwayID      string `json:"pathway_id" validate:"required"`
	DocumentTypeID string `json:"document_type_id" validate:"required"`
}
