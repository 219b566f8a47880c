package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/yudadh/dokumen-service/internal/middleware"
	"github.com/yudadh/dokumen-service/internal/models"
	"github.com/yudadh/dokumen-service/internal/service"
	"github.com/yudadh/dokumen-service/pkg/config"
	"github.com/yudadh/dokumen-service/pkg/logger"
	corsmiddleware "github.com/yudadh/dokumen-service/pkg/middleware/cors"
	reqidmiddleware "github.com/yudadh/dokumen-service/pkg/middleware/requestid"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *sqlx.DB
	Documents *DocumentHandler
	Catalog   *CatalogHandler
	Reports   *ReportHandler
	Schedule  middleware.StageResolver
	Metrics   *service.MetricsService
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix)
	api.Use(middleware.JWT(deps.Config.JWT.Secret))

	students := api.Group("/students/:studentId")
	{
		students.POST("/documents/:documentTypeId",
			middleware.RBAC("SELF",
				string(models.RoleElementaryAdmin),
				string(models.RoleDistrictAdmin)),
			middleware.ScheduleWindow(deps.Schedule, "pendaftaran"),
			deps.Documents.Upload)
		students.GET("/documents",
			middleware.RBAC("SELF",
				string(models.RoleElementaryAdmin),
				string(models.RoleMiddleAdmin),
				string(models.RoleDistrictAdmin)),
			deps.Documents.List)
		if deps.Reports != nil {
			students.GET("/documents/export",
				middleware.RequireRoles(models.RoleElementaryAdmin, models.RoleMiddleAdmin, models.RoleDistrictAdmin),
				deps.Reports.Verification)
		}
	}

	documents := api.Group("/documents")
	{
		documents.PATCH("/:id/status",
			middleware.RequireRoles(models.RoleElementaryAdmin, models.RoleMiddleAdmin, models.RoleDistrictAdmin),
			middleware.ScheduleWindow(deps.Schedule, "verifikasi"),
			deps.Documents.UpdateStatus)
		documents.DELETE("/:id",
			middleware.RequireRoles(models.RoleElementaryAdmin, models.RoleDistrictAdmin),
			deps.Documents.Delete)
	}

	// Catalog reads are open to every role; mutations stay with the district tier.
	adminOnly := middleware.RequireRoles(models.RoleDistrictAdmin)

	masterDocs := api.Group("/master-documents")
	{
		masterDocs.POST("", adminOnly, deps.Catalog.Create)
		masterDocs.GET("", deps.Catalog.List)
		masterDocs.GET("/:id", deps.Catalog.Get)
		masterDocs.PUT("/:id", adminOnly, deps.Catalog.Update)
		masterDocs.DELETE("/:id", adminOnly, deps.Catalog.Delete)
	}

	pathwayDocs := api.Group("/pathway-documents")
	{
		pathwayDocs.POST("", adminOnly, deps.Catalog.CreatePathwayDocument)
		pathwayDocs.GET("", deps.Catalog.ListPathwayDocuments)
	}

	return r
}
