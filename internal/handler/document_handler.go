package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yudadh/dokumen-service/internal/dto"
	"github.com/yudadh/dokumen-service/internal/middleware"
	"github.com/yudadh/dokumen-service/internal/service"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
	"github.com/yudadh/dokumen-service/pkg/response"
)

// DocumentHandler exposes student document endpoints.
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Upload godoc
// @Summary Upload a student document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param studentId path string true "Student ID"
// @Param documentTypeId path string true "Document type ID"
// @Param file formData file true "Document file (JPG, PNG or PDF)"
// @Success 201 {object} response.Envelope
// @Router /students/{studentId}/documents/{documentTypeId} [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file"))
		return
	}

	upload := service.DocumentUpload{
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	result, err := h.documents.Upload(c.Request.Context(), c.Param("studentId"), c.Param("documentTypeId"), upload, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List a student's documents
// @Tags Documents
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{studentId}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.documents.ListByStudent(c.Request.Context(), c.Param("studentId"), claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// UpdateStatus godoc
// @Summary Update a document's validation status
// @Tags Documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param payload body dto.UpdateDocumentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /documents/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	claims, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status payload"))
		return
	}

	result, err := h.documents.UpdateStatus(c.Request.Context(), c.Param("id"), req, claims.Role, middleware.PathwayPeriodID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete a student document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	result, err := h.documents.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
