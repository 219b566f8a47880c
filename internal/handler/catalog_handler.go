package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yudadh/dokumen-service/internal/dto"
	"github.com/yudadh/dokumen-service/internal/service"
	appErrors "github.com/yudadh/dokumen-service/pkg/errors"
	"github.com/yudadh/dokumen-service/pkg/response"
)

// CatalogHandler exposes master document catalog endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Create godoc
// @Summary Create a master document type
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreateMasterDocumentRequest true "Master document payload"
// @Success 201 {object} response.Envelope
// @Router /master-documents [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateMasterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid master document payload"))
		return
	}
	doc, err := h.catalog.CreateMasterDocument(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// List godoc
// @Summary List master document types
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /master-documents [get]
func (h *CatalogHandler) List(c *gin.Context) {
	docs, err := h.catalog.ListMasterDocuments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs)
}

// Get godoc
// @Summary Get one master document type
// @Tags Catalog
// @Produce json
// @Param id path string true "Master document ID"
// @Success 200 {object} response.Envelope
// @Router /master-documents/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	doc, err := h.catalog.GetMasterDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc)
}

// Update godoc
// @Summary Update a master document type
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Master document ID"
// @Param payload body dto.UpdateMasterDocumentRequest true "Master document payload"
// @Success 200 {object} response.Envelope
// @Router /master-documents/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	var req dto.UpdateMasterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid master document payload"))
		return
	}
	doc, err := h.catalog.UpdateMasterDocument(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc)
}

// Delete godoc
// @Summary Delete a master document type
// @Tags Catalog
// @Produce json
// @Param id path string true "Master document ID"
// @Success 204 "No Content"
// @Router /master-documents/{id} [delete]
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteMasterDocument(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreatePathwayDocument godoc
// @Summary Link a document type to a pathway
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body dto.CreatePathwayDocumentRequest true "Pathway document payload"
// @Success 201 {object} response.Envelope
// @Router /pathway-documents [post]
func (h *CatalogHandler) CreatePathwayDocument(c *gin.Context) {
	var req dto.CreatePathwayDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid pathway document payload"))
		return
	}
	link, err := h.catalog.CreatePathwayDocument(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// ListPathwayDocuments godoc
// @Summary List pathway document requirements
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /pathway-documents [get]
func (h *CatalogHandler) ListPathwayDocuments(c *gin.Context) {
	links, err := h.catalog.ListPathwayDocuments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links)
}
