package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yudadh/dokumen-service/internal/dto"
	"github.com/yudadh/dokumen-service/internal/models"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
)

type masterDocumentRepository interface {
	Create(ctx context.Context, doc *models.MasterDocument) error
	Update(ctx context.Context, id, name string, description *string) error
	FindAll(ctx context.Context) ([]models.MasterDocument, error)
	FindByID(ctx context.Context, id string) (*models.MasterDocument, error)
	Delete(ctx context.Context, id string) error
}

type pathwayDocumentRepository interface {
	Create(ctx context.Context, link *models.PathwayDocument) error
	List(ctx context.Context) ([]models.PathwayDocumentDetail, error)
}

// CatalogService manages the master document catalog and the pathway links
// that mark which document types a pathway requires.
type CatalogService struct {
	masterDocs  masterDocumentRepository
	pathwayDocs pathwayDocumentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(masterDocs masterDocumentRepository, pathwayDocs pathwayDocumentRepository, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{masterDocs: masterDocs, pathwayDocs: pathwayDocs, validator: validate, logger: logger}
}

// CreateMasterDocument registers a new catalog entry.
func (s *CatalogService) CreateMasterDocument(ctx context.Context, req dto.CreateMasterDocumentRequest) (*models.MasterDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid master document payload")
	}
	doc := &models.MasterDocument{
		Name:        req.Name,
		IsCommon:    req.IsCommon,
		Description: req.Description,
	}
	if err := s.masterDocs.Create(ctx, doc); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create master document")
	}
	return doc, nil
}

// UpdateMasterDocument renames or re-describes a catalog entry.
func (s *CatalogService) UpdateMasterDocument(ctx context.Context, id string, req dto.UpdateMasterDocumentRequest) (*models.MasterDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid master document payload")
	}
	if err := s.masterDocs.Update(ctx, id, req.Name, req.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "master document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update master document")
	}
	doc, err := s.masterDocs.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load master document")
	}
	return doc, nil
}

// ListMasterDocuments returns the whole catalog.
func (s *CatalogService) ListMasterDocuments(ctx context.Context) ([]models.MasterDocument, error) {
	docs, err := s.masterDocs.FindAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list master documents")
	}
	return docs, nil
}

// GetMasterDocument returns one catalog entry by id.
func (s *CatalogService) GetMasterDocument(ctx context.Context, id string) (*models.MasterDocument, error) {
	doc, err := s.masterDocs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "master document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load master document")
	}
	return doc, nil
}

// DeleteMasterDocument removes a catalog entry.
func (s *CatalogService) DeleteMasterDocument(ctx context.Context, id string) error {
	if err := s.masterDocs.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "master document not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete master document")
	}
	return nil
}

// CreatePathwayDocument links a pathway with a required document type.
func (s *CatalogService) CreatePathwayDocument(ctx context.Context, req dto.CreatePathwayDocumentRequest) (*models.PathwayDocument, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pathway document payload")
	}
	link := &models.PathwayDocument{
		PathwayID:      req.PathwayID,
		DocumentTypeID: req.DocumentTypeID,
	}
	if err := s.pathwayDocs.Create(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pathway document")
	}
	return link, nil
}

// ListPathwayDocuments returns all pathway links with joined names.
func (s *CatalogService) ListPathwayDocuments(ctx context.Context) ([]models.PathwayDocumentDetail, error) {
	links, err := s.pathwayDocs.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pathway documents")
	}
	return links, nil
}
