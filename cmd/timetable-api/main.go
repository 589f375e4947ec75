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

	_ "github.com/noah-isme/faculty-timetable-api/api/swagger"
	"github.com/noah-isme/faculty-timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/faculty-timetable-api/internal/middleware"
	"github.com/noah-isme/faculty-timetable-api/internal/repository"
	"github.com/noah-isme/faculty-timetable-api/internal/service"
	"github.com/noah-isme/faculty-timetable-api/pkg/cache"
	"github.com/noah-isme/faculty-timetable-api/pkg/config"
	"github.com/noah-isme/faculty-timetable-api/pkg/database"
	"github.com/noah-isme/faculty-timetable-api/pkg/jobs"
	"github.com/noah-isme/faculty-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/faculty-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/faculty-timetable-api/pkg/middleware/requestid"
)

// @title Faculty Timetable API
// @version 1.0.0
// @description Builds daily slot layouts and assigns faculty to department timetables.
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}

	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, "timetable", logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cfg.Cache.Enabled && redisClient != nil)
	settingsSvc := service.NewSettingsService(settingsRepo, service.SettingsDefaults{
		WorkStart:       cfg.Settings.WorkStart,
		WorkEnd:         cfg.Settings.WorkEnd,
		PeriodDuration:  cfg.Settings.PeriodDuration,
		NumberOfPeriods: cfg.Settings.NumberOfPeriods,
	}, metricsSvc, validate, logr)
	facultySvc := service.NewFacultyService(facultyRepo, subjectRepo, settingsSvc, validate, logr)
	catalogSvc := service.NewCatalogService(departmentRepo, subjectRepo, validate)
	timetableSvc := service.NewTimetableService(timetableRepo, facultyRepo, departmentRepo, settingsSvc, cacheSvc, metricsSvc, validate, logr)

	batchResults := service.NewBatchResults()
	worker := service.NewTimetableWorker(timetableSvc, batchResults, logr)
	queue := jobs.NewQueue("timetable-batch", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Scheduler.Workers,
		MaxRetries: cfg.Scheduler.Retries,
		RetryDelay: cfg.Scheduler.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	batchSvc := service.NewBatchService(queue, batchResults, cfg.Scheduler.BatchEnabled, logr)

	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	facultyHandler := handler.NewFacultyHandler(facultySvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc, batchSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
		"postgres": db,
		"redis":    handler.PingerFunc(cacheRepo.Ping),
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, MaxAge: cfg.CORS.MaxAge}))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.ResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	if cfg.Docs.Enabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	settings := api.Group("/settings")
	settings.GET("", settingsHandler.Get)
	settings.PUT("", settingsHandler.Update)
	settings.GET("/layout", settingsHandler.Layout)

	faculty := api.Group("/faculty")
	faculty.GET("", facultyHandler.List)
	faculty.POST("", facultyHandler.Create)
	faculty.GET("/:id", facultyHandler.Get)
	faculty.PUT("/:id", facultyHandler.Update)
	faculty.DELETE("/:id", facultyHandler.Delete)

	api.GET("/departments", catalogHandler.Departments)
	api.GET("/subjects", catalogHandler.Subjects)

	timetables := api.Group("/timetables")
	timetables.GET("", timetableHandler.Get)
	timetables.DELETE("", timetableHandler.Delete)
	timetables.POST("/generate", timetableHandler.Generate)
	timetables.GET("/export", timetableHandler.Export)
	timetables.POST("/generate-all", timetableHandler.GenerateAll)
	timetables.GET("/jobs/:id", timetableHandler.BatchStatus)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
