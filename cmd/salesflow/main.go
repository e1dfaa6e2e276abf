package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/siamfield/salesflow/api/swagger"
	"github.com/siamfield/salesflow/internal/handler"
	"github.com/siamfield/salesflow/internal/llm"
	"github.com/siamfield/salesflow/internal/middleware"
	"github.com/siamfield/salesflow/internal/repository"
	"github.com/siamfield/salesflow/internal/service"
	"github.com/siamfield/salesflow/internal/speech"
	"github.com/siamfield/salesflow/pkg/cache"
	"github.com/siamfield/salesflow/pkg/config"
	"github.com/siamfield/salesflow/pkg/database"
	"github.com/siamfield/salesflow/pkg/jobs"
	"github.com/siamfield/salesflow/pkg/logger"
	corsmiddleware "github.com/siamfield/salesflow/pkg/middleware/cors"
	reqidmiddleware "github.com/siamfield/salesflow/pkg/middleware/requestid"
	"github.com/siamfield/salesflow/pkg/storage"
)

// @title Salesflow API
// @version 1.0.0
// @description Field-sales workflow assistant
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	cacheEnabled := true
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, mission cache disabled", "error", err)
		cacheEnabled = false
	}
	var cacheSvc *service.CacheService
	if cacheEnabled {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Visits.MissionCacheTTL, logr, true)
		defer cacheRepo.Close() //nolint:errcheck
	} else {
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Visits.MissionCacheTTL, logr, false)
	}

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		logr.Sugar().Warnw("llm backend unavailable, deterministic fallbacks only", "error", err)
		provider = nil
	}

	missionRepo := repository.NewMissionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	reportRepo := repository.NewReportRepository(db)
	visitRepo := repository.NewVisitRepository(db)

	matcher := service.NewRoutineMatcher(cfg.Visits.RoutineKeywords)
	missionSvc := service.NewMissionService(missionRepo, cacheSvc, matcher, validate, logr, cfg.Visits.MissionCacheTTL)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, validate, logr)

	ruleAuditor := service.NewRuleAuditor()
	var auditor service.Auditor = ruleAuditor
	if provider != nil && cfg.Visits.AuditWithLLM {
		auditor = service.NewLLMAuditor(provider, ruleAuditor, metricsSvc, cfg.LLM.Timeout, logr)
	}
	auditSvc := service.NewAuditService(auditor, logr)

	summaryProvider := provider
	if !cfg.Visits.SummarizeWithLLM {
		summaryProvider = nil
	}
	summarySvc := service.NewSummaryService(summaryProvider, metricsSvc, cfg.LLM.Timeout, logr)
	sentimentSvc := service.NewSentimentService(provider, metricsSvc, cfg.LLM.Timeout, logr)
	followUpSvc := service.NewFollowUpService(cfg.Visits.RoutineTopic, logr)

	transcriber := speech.NewGoogleTranscriber(cfg.Speech)
	visitSvc := service.NewVisitService(
		missionSvc,
		auditSvc,
		summarySvc,
		sentimentSvc,
		followUpSvc,
		visitRepo,
		transcriber,
		metricsSvc,
		logr,
		cfg.Visits.CloseMaxRetries,
	)

	missionHandler := handler.NewMissionHandler(missionSvc)
	visitHandler := handler.NewVisitHandler(visitSvc, assignmentSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Identity())

	missions := api.Group("/missions")
	missions.GET("", missionHandler.List)
	missions.POST("", middleware.RequireManager(), missionHandler.Assign)
	missions.DELETE("/:id", middleware.RequireManager(), missionHandler.Archive)

	visits := api.Group("/visits")
	visits.POST("", visitHandler.Open)
	visits.GET("/:id", visitHandler.Get)
	visits.DELETE("/:id", visitHandler.Reset)
	visits.POST("/:id/report", visitHandler.SubmitReport)
	visits.POST("/:id/voice", visitHandler.SubmitVoice)
	visits.POST("/:id/close", visitHandler.Close)

	assignments := api.Group("/assignments")
	assignments.POST("", middleware.RequireManager(), assignmentHandler.Create)
	assignments.GET("/reps", assignmentHandler.Reps)
	assignments.GET("/reps/:rep/customers", assignmentHandler.Customers)

	api.GET("/ops/metrics", metricsHandler.Snapshot)

	if cfg.Exports.Enabled {
		exportRepo := repository.NewExportRepository(db)
		fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("export storage init failed", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(reportRepo, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr)

		worker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("report_export", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(ctx)
		defer queue.Stop()

		reportSvc := service.NewReportService(reportRepo, exportRepo, queue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		go reportSvc.StartCleanup(ctx)

		reportHandler := handler.NewReportHandler(reportSvc)
		reports := api.Group("/reports")
		reports.GET("", middleware.RequireManager(), reportHandler.List)
		reports.POST("/export", middleware.RequireManager(), reportHandler.CreateExport)
		reports.GET("/export/:id", middleware.RequireManager(), reportHandler.ExportStatus)
		reports.GET("/export/download/:token", reportHandler.Download)
	} else {
		reportSvc := service.NewReportService(reportRepo, nil, nil, nil, logr, service.ReportServiceConfig{})
		reportHandler := handler.NewReportHandler(reportSvc)
		api.GET("/reports", middleware.RequireManager(), reportHandler.List)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown incomplete", "error", err)
	}
}
