package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yudadh/dokumen-service/internal/dto"
	"github.com/yudadh/dokumen-service/internal/models"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
	"github.com/yudadh/dokumen-service/pkg/storage"
)

type documentRepository interface {
	Upsert(ctx context.Context, doc *models.StudentDocument) (*models.StudentDocument, error)
	FindByID(ctx context.Context, id string) (*models.StudentDocument, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.StudentDocumentDetail, error)
	UpdateAccessURL(ctx context.Context, id, url string, expiresAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status models.DocumentStatus, annotation *string) error
	UpdateStatusWithRollup(ctx context.Context, id string, status models.DocumentStatus, annotation *string, registrationID string) error
	Delete(ctx context.Context, id string) error
}

type masterDocumentReader interface {
	FindByID(ctx context.Context, id string) (*models.MasterDocument, error)
}

type registrationReader interface {
	FindByStudentAndPathwayPeriod(ctx context.Context, studentID, pathwayPeriodID string) (*models.Registration, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type objectStorage interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
	SignedURL(ctx context.Context, objectPath string) (string, time.Time, error)
	Remove(ctx context.Context, objectPath string) error
}

// DocumentUpload carries one uploaded file held in memory.
type DocumentUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Data        []byte
}

// DocumentServiceConfig bounds incoming uploads.
type DocumentServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// DocumentService owns the verification workflow for student documents:
// upload/upsert, role-aware listing with lazy signed-link refresh, and the
// status state machine with its registration rollup.
type DocumentService struct {
	repo          documentRepository
	masterDocs    masterDocumentReader
	registrations registrationReader
	students      studentReader
	storage       objectStorage
	validator     *validator.Validate
	logger        *zap.Logger
	cfg           DocumentServiceConfig
	mimeSet       map[string]struct{}
}

// NewDocumentService constructs the service with defaults.
func NewDocumentService(repo documentRepository, masterDocs masterDocumentReader, registrations registrationReader, students studentReader, store objectStorage, validate *validator.Validate, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &DocumentService{
		repo:          repo,
		masterDocs:    masterDocs,
		registrations: registrations,
		students:      students,
		storage:       store,
		validator:     validate,
		logger:        logger,
		cfg:           cfg,
		mimeSet:       mimeSet,
	}
}

// Upload stores the file and upserts the student's document record. A
// re-upload for the same (student, document type) overwrites the existing
// record's file fields and clears its annotation.
func (s *DocumentService) Upload(ctx context.Context, studentID, documentTypeID string, upload DocumentUpload, role models.UserRole) (*dto.UploadDocumentResponse, error) {
	if len(upload.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType := upload.ContentType
	if mimeType == "" {
		mimeType = http.DetectContentType(upload.Data)
	}
	if _, allowed := s.mimeSet[strings.ToLower(mimeType)]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file type not allowed, only JPG, PNG and PDF are accepted")
	}

	master, err := s.masterDocs.FindByID(ctx, documentTypeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document type not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document type")
	}

	objectPath := storage.ObjectPath(master.Name, studentID, upload.Filename)
	if err := s.storage.Put(ctx, objectPath, upload.Data, mimeType); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document file")
	}
	url, expiresAt, err := s.storage.SignedURL(ctx, objectPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign document link")
	}

	// Uploads performed by the elementary tier count as already reviewed there.
	status := models.DocumentStatusUnvalidated
	if role == models.RoleElementaryAdmin {
		status = models.DocumentStatusValidSD
	}

	doc := &models.StudentDocument{
		StudentID:      studentID,
		DocumentTypeID: documentTypeID,
		FilePath:       objectPath,
		AccessURL:      url,
		URLExpiresAt:   expiresAt,
		Status:         status,
	}
	saved, err := s.repo.Upsert(ctx, doc)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save document record")
	}

	return &dto.UploadDocumentResponse{
		DocumentID:     saved.ID,
		DocumentTypeID: saved.DocumentTypeID,
		URL:            saved.AccessURL,
		Status:         saved.Status,
	}, nil
}

// ListByStudent returns the student's documents as seen by the viewer role:
// expired signed links are refreshed in place and annotations addressed to
// other tiers are withheld.
func (s *DocumentService) ListByStudent(ctx context.Context, studentID string, viewer models.UserRole) (*dto.StudentDocumentsResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	docs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}

	now := time.Now()
	views := make([]dto.StudentDocumentView, 0, len(docs))
	for _, doc := range docs {
		view := dto.StudentDocumentView{
			DocumentID:     doc.ID,
			StudentID:      doc.StudentID,
			DocumentTypeID: doc.DocumentTypeID,
			TypeName:       doc.TypeName,
			URL:            doc.AccessURL,
			Status:         doc.Status,
		}
		if doc.Annotation != nil {
			view.Annotation = ExtractAnnotation(viewer, *doc.Annotation)
		}
		if doc.URLExpiresAt.Before(now) {
			url, expiresAt, err := s.storage.SignedURL(ctx, doc.FilePath)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to refresh document link")
			}
			if err := s.repo.UpdateAccessURL(ctx, doc.ID, url, expiresAt); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save refreshed link")
			}
			view.URL = url
		}
		views = append(views, view)
	}

	return &dto.StudentDocumentsResponse{Documents: views, StudentName: student.FullName}, nil
}

// UpdateStatus re-classifies a document and, when the student holds a
// registration in the given pathway-period, recomputes the registration
// status in the same database transaction as the status write.
func (s *DocumentService) UpdateStatus(ctx context.Context, documentID string, req dto.UpdateDocumentStatusRequest, role models.UserRole, pathwayPeriodID string) (*dto.UpdateDocumentStatusResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	var annotation *string
	if req.Annotation != nil {
		tagged := TagAnnotation(role, *req.Annotation)
		annotation = &tagged
	}

	registration, err := s.registrations.FindByStudentAndPathwayPeriod(ctx, doc.StudentID, pathwayPeriodID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}

	if registration == nil {
		// No registration to roll up into; the status change stands alone.
		err = s.repo.UpdateStatus(ctx, documentID, req.Status, annotation)
	} else {
		err = s.repo.UpdateStatusWithRollup(ctx, documentID, req.Status, annotation, registration.ID)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update document status")
	}

	return &dto.UpdateDocumentStatusResponse{
		DocumentID: doc.ID,
		StudentID:  doc.StudentID,
		Status:     req.Status,
	}, nil
}

// Delete removes a student's document record and its stored file.
func (s *DocumentService) Delete(ctx context.Context, documentID string) (*dto.DeleteDocumentResponse, error) {
	doc, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}
	if err := s.repo.Delete(ctx, documentID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}
	if err := s.storage.Remove(ctx, doc.FilePath); err != nil {
		s.logger.Warn("failed to remove stored file", zap.Error(err), zap.String("path", doc.FilePath))
	}
	return &dto.DeleteDocumentResponse{DocumentID: documentID}, nil
}
