package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudadh/dokumen-service/internal/models"
	"github.com/yudadh/dokumen-service/internal/service"
)

type stubMasterDocRepo struct {
	docs []models.MasterDocument
}

func (s *stubMasterDocRepo) Create(ctx context.Context, doc *models.MasterDocument) error {
	doc.ID = "type-new"
	return nil
}

func (s *stubMasterDocRepo) Update(ctx context.Context, id, name string, description *string) error {
	return sql.ErrNoRows
}

func (s *stubMasterDocRepo) FindAll(ctx context.Context) ([]models.MasterDocument, error) {
	return s.docs, nil
}

func (s *stubMasterDocRepo) FindByID(ctx context.Context, id string) (*models.MasterDocument, error) {
	for i := range s.docs {
		if s.docs[i].ID == id {
			return &s.docs[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubMasterDocRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type stubPathwayDocRepo struct{}

func (s *stubPathwayDocRepo) Create(ctx context.Context, link *models.PathwayDocument) error {
	link.ID = "pd-new"
	return nil
}

func (s *stubPathwayDocRepo) List(ctx context.Context) ([]models.PathwayDocumentDetail, error) {
	return nil, nil
}

func newCatalogRouter(repo *stubMasterDocRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(service.NewCatalogService(repo, &stubPathwayDocRepo{}, nil, nil))
	r := gin.New()
	r.POST("/master-documents", h.Create)
	r.GET("/master-documents", h.List)
	r.GET("/master-documents/:id", h.Get)
	return r
}

func TestCatalogHandlerCreate(t *testing.T) {
	router := newCatalogRouter(&stubMasterDocRepo{})

	body := strings.NewReader(`{"name":"Kartu Keluarga","is_common":true}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/master-documents", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"type-new"`)
	assert.Contains(t, w.Body.String(), "Kartu Keluarga")
}

func TestCatalogHandlerCreateInvalidPayload(t *testing.T) {
	router := newCatalogRouter(&stubMasterDocRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/master-documents", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestCatalogHandlerGetNotFound(t *testing.T) {
	router := newCatalogRouter(&stubMasterDocRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/master-documents/type-404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "master document not found")
}

func TestCatalogHandlerList(t *testing.T) {
	repo := &stubMasterDocRepo{docs: []models.MasterDocument{
		{ID: "type-1", Name: "Akta Kelahiran", IsCommon: true},
	}}
	router := newCatalogRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/master-documents", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Akta Kelahiran")
}
