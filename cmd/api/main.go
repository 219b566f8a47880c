package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	_ "github.com/yudadh/dokumen-service/api/swagger"
	"github.com/yudadh/dokumen-service/internal/handler"
	"github.com/yudadh/dokumen-service/internal/repository"
	"github.com/yudadh/dokumen-service/internal/service"
	"github.com/yudadh/dokumen-service/pkg/cache"
	"github.com/yudadh/dokumen-service/pkg/config"
	"github.com/yudadh/dokumen-service/pkg/database"
	"github.com/yudadh/dokumen-service/pkg/logger"
	"github.com/yudadh/dokumen-service/pkg/storage"
)

// @title Dokumen Service API
// @version 0.1.0
// @description Student enrollment document verification workflow
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, schedule caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, err := storage.NewObjectStorage(cfg.Storage)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object storage", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureBucket(ctx); err != nil {
		cancel()
		logr.Sugar().Fatalw("failed to ensure storage bucket", "error", err)
	}
	cancel()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	documentRepo := repository.NewDocumentRepository(db)
	masterDocRepo := repository.NewMasterDocumentRepository(db)
	pathwayDocRepo := repository.NewPathwayDocumentRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Drop any schedule snapshot left over from a previous run.
	ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	if err := cacheRepo.DeleteByPattern(ctx, "schedule:*"); err != nil {
		logr.Sugar().Warnw("failed to clear schedule cache", "error", err)
	}
	cancel()

	documentSvc := service.NewDocumentService(documentRepo, masterDocRepo, registrationRepo, studentRepo, store, validate, logr, service.DocumentServiceConfig{
		MaxFileSize:  cfg.Upload.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Upload.AllowedMIMEs,
	})
	catalogSvc := service.NewCatalogService(masterDocRepo, pathwayDocRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, cacheRepo, metricsSvc, logr, service.ScheduleServiceConfig{
		CacheEnabled: cfg.Schedule.CacheEnabled,
		CacheTTL:     cfg.Schedule.CacheTTL,
	})

	deps := handler.RouterDeps{
		Config:    cfg,
		Logger:    logr,
		DB:        db,
		Documents: handler.NewDocumentHandler(documentSvc),
		Catalog:   handler.NewCatalogHandler(catalogSvc),
		Schedule:  scheduleSvc,
		Metrics:   metricsSvc,
	}
	if cfg.Reports.Enabled {
		reportSvc := service.NewReportService(documentRepo, studentRepo, logr)
		deps.Reports = handler.NewReportHandler(reportSvc)
	}

	r := handler.NewRouter(deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
