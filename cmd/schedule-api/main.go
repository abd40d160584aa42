package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/schedule-liff-api/api/swagger"
	"github.com/noah-isme/schedule-liff-api/internal/handler"
	"github.com/noah-isme/schedule-liff-api/internal/middleware"
	"github.com/noah-isme/schedule-liff-api/internal/repository"
	"github.com/noah-isme/schedule-liff-api/internal/service"
	"github.com/noah-isme/schedule-liff-api/pkg/cache"
	"github.com/noah-isme/schedule-liff-api/pkg/calendar"
	"github.com/noah-isme/schedule-liff-api/pkg/config"
	"github.com/noah-isme/schedule-liff-api/pkg/database"
	"github.com/noah-isme/schedule-liff-api/pkg/export"
	"github.com/noah-isme/schedule-liff-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/schedule-liff-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/schedule-liff-api/pkg/middleware/requestid"
	"github.com/noah-isme/schedule-liff-api/pkg/storage"
)

// @title Schedule LIFF API
// @version 1.0.0
// @description Class timetable assistant for the LINE LIFF app and chat bot
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logr.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, term cache disabled", zap.Error(err))
		redisClient = nil
	}
	cacheRepo := repository.NewCacheRepository(redisClient, cache.KeyPrefix)
	defer cacheRepo.Close() //nolint:errcheck

	loc := calendar.LoadZone(cfg.Schedule.Timezone)
	clock := calendar.SystemClock{}
	validate := validator.New()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	termRepo := repository.NewTermRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Schedule.TermCacheTTL, logr, redisClient != nil)
	termSvc := service.NewTermService(termRepo, cacheSvc, metricsSvc, cfg.Schedule.TermCacheTTL, validate, logr)
	scheduleSvc := service.NewScheduleService(termSvc, subjectRepo, holidayRepo, clock, service.ScheduleSettings{
		Location:     loc,
		StoreTimeout: cfg.Schedule.StoreTimeout,
	}, metricsSvc, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, termSvc, clock, loc, validate, logr)
	holidaySvc := service.NewHolidayService(holidayRepo, clock, loc, validate, logr)
	authSvc := service.NewAuthService(service.AuthConfig{
		APIKey:      cfg.Auth.APIKey,
		TokenSecret: cfg.Auth.JWTSecret,
		TokenTTL:    cfg.Auth.TokenTTL,
	}, logr)
	if !authSvc.Enabled() {
		logr.Warn("API_KEY and JWT_SECRET are empty, requests are not authenticated")
	}

	exportCfg := service.ExportConfig{APIPrefix: cfg.APIPrefix, Location: loc, Clock: clock}
	csvExporter := export.NewCSVExporter()
	pdfExporter := export.NewPDFExporter(cfg.Export.PDFFontPath)
	icsExporter := export.NewICSExporter("-//schedule-liff//timetable//TH")
	var exportSvc *service.ExportService
	if cfg.Export.SigningSecret != "" {
		files, err := storage.NewFileStore(cfg.Export.Dir)
		if err != nil {
			logr.Fatal("failed to prepare export directory", zap.String("dir", cfg.Export.Dir), zap.Error(err))
		}
		signer := storage.NewLinkSigner(cfg.Export.SigningSecret, cfg.Export.LinkTTL)
		exportSvc = service.NewExportService(termSvc, subjectRepo, holidayRepo, files, signer, exportCfg, logr, csvExporter, pdfExporter, icsExporter)
	} else {
		logr.Info("export links disabled, no signing secret configured")
		exportSvc = service.NewExportService(termSvc, subjectRepo, holidayRepo, nil, nil, exportCfg, logr, csvExporter, pdfExporter, icsExporter)
	}

	scheduler := service.NewScheduler(loc, time.Minute, logr)
	if cfg.Schedule.TermWatcher {
		watcher := service.NewTermWatcher(termSvc, clock, loc, logr)
		if err := scheduler.Register("term-watcher", cfg.Schedule.TermWatcherSpec, watcher.Run); err != nil {
			logr.Fatal("invalid term watcher schedule", zap.Error(err))
		}
	}
	if cfg.Export.SigningSecret != "" {
		if err := scheduler.Register("export-sweep", cfg.Export.SweepSpec, exportSvc.Sweep); err != nil {
			logr.Fatal("invalid export sweep schedule", zap.Error(err))
		}
	}
	scheduler.Start()

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	termHandler := handler.NewTermHandler(termSvc, scheduleSvc.Today)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	holidayHandler := handler.NewHolidayHandler(holidaySvc)
	exportHandler := handler.NewExportHandler(exportSvc, scheduleSvc.Today)
	authHandler := handler.NewAuthHandler(authSvc)
	opsHandler := handler.NewOpsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc, "/metrics"))

	r.GET("/health", opsHandler.Health)
	r.GET("/ready", opsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", opsHandler.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/schedule/export/shared/:token", exportHandler.Shared)

	secured := api.Group("")
	secured.Use(middleware.Auth(authSvc))
	{
		secured.POST("/schedule/query", scheduleHandler.Query)
		secured.GET("/schedule/export", exportHandler.Download)
		secured.POST("/schedule/export/share", exportHandler.Share)

		secured.GET("/term/resolve", termHandler.Resolve)
		secured.GET("/terms", termHandler.List)
		secured.POST("/terms", middleware.RequireAPIKey(), termHandler.Create)

		secured.POST("/subjects", subjectHandler.Create)
		secured.GET("/subjects/list", subjectHandler.List)
		secured.GET("/subjects/get", subjectHandler.Get)
		secured.POST("/subjects/update", subjectHandler.Update)
		secured.POST("/subjects/delete", subjectHandler.Delete)

		secured.POST("/holidays", holidayHandler.Create)
		secured.GET("/holidays/list", holidayHandler.List)
		secured.POST("/holidays/delete", holidayHandler.Delete)

		secured.POST("/auth/token", middleware.RequireAPIKey(), authHandler.IssueToken)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	scheduler.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
