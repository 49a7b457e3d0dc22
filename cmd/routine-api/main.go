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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/routine-admin-api/api/swagger"
	"github.com/noah-isme/routine-admin-api/internal/handler"
	internalmiddleware "github.com/noah-isme/routine-admin-api/internal/middleware"
	"github.com/noah-isme/routine-admin-api/internal/models"
	"github.com/noah-isme/routine-admin-api/internal/repository"
	"github.com/noah-isme/routine-admin-api/internal/routine"
	"github.com/noah-isme/routine-admin-api/internal/service"
	"github.com/noah-isme/routine-admin-api/pkg/cache"
	"github.com/noah-isme/routine-admin-api/pkg/config"
	"github.com/noah-isme/routine-admin-api/pkg/database"
	"github.com/noah-isme/routine-admin-api/pkg/jobs"
	"github.com/noah-isme/routine-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/routine-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/routine-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/routine-admin-api/pkg/storage"
)

// @title Class Routine Admin API
// @version 1.0.0
// @description Room occupancy, course load and routine administration
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	metrics := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)

	semesterRepo := repository.NewSemesterRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	programRepo := repository.NewProgramRepository(db)
	sectionRepo := repository.NewEnrollmentRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	timeSlotRepo := repository.NewTimeSlotRepository(db)
	reportRepo := repository.NewReportRepository(db)

	snapshots := service.NewSnapshotLoader(service.SnapshotLoaderParams{
		Semesters: semesterRepo,
		Rooms:     roomRepo,
		Programs:  programRepo,
		Sections:  sectionRepo,
		Routine:   routineRepo,
		Overrides: overrideRepo,
		TimeSlots: timeSlotRepo,
		Metrics:   metrics,
		Logger:    logr,
	})
	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Snapshots:  snapshots,
		Calculator: routine.NewCalculator(logr),
		Cache:      cacheSvc,
		Metrics:    metrics,
		Logger:     logr,
		Config: service.DashboardServiceConfig{
			CacheTTL:        cfg.Dashboard.CacheTTL,
			WeekStart:       cfg.Routine.WeekStart,
			DefaultPageSize: cfg.Lists.DefaultPageSize,
			MaxPageSize:     cfg.Lists.MaxPageSize,
		},
	})

	validate := service.NewValidator()
	authSvc := service.NewAuthService(logr, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	roomSvc := service.NewRoomService(roomRepo, programRepo, dashboardSvc, validate, logr)
	programSvc := service.NewProgramService(programRepo, dashboardSvc, validate, logr)
	routineSvc := service.NewRoutineService(routineRepo, overrideRepo, dashboardSvc, validate, logr)
	mergeSvc := service.NewMergeService(sectionRepo, logr)
	timeSlotSvc := service.NewTimeSlotService(timeSlotRepo, dashboardSvc, validate, logr)
	semesterSvc := service.NewSemesterService(semesterRepo, validate, logr)

	var reportHandler *handler.ReportHandler
	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Fatal("report storage unavailable", zap.Error(err))
		}
		exportSvc := service.NewExportService(service.ExportServiceParams{
			Snapshots:   snapshots,
			Aggregation: dashboardSvc,
			Storage:     fileStore,
			Signer:      storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL),
			Logger:      logr,
			Config: service.ExportConfig{
				APIPrefix: cfg.APIPrefix,
				ResultTTL: cfg.Reports.SignedURLTTL,
				WeekStart: cfg.Routine.WeekStart,
			},
		})
		worker := service.NewReportWorker(reportRepo, exportSvc, metrics, cfg.Reports.WorkerRetries, logr)
		reportQueue := jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc := service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
		reportHandler = handler.NewReportHandler(reportSvc, logr)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"database": db,
		"redis":    handler.PingFunc(cacheRepo.Ping),
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())
	if reportHandler != nil {
		api.GET("/export/:token", reportHandler.DownloadReport)
	}

	secured := api.Group("")
	secured.Use(internalmiddleware.JWT(authSvc))

	canEdit := internalmiddleware.RequireAccess(func(a models.DashboardAccess) bool { return a.CanEditRoutine })
	canViewOccupancy := internalmiddleware.RequireAccess(func(a models.DashboardAccess) bool { return a.CanViewOccupancy })
	canViewCourses := internalmiddleware.RequireAccess(func(a models.DashboardAccess) bool { return a.CanViewCourseLoad })
	canViewTeachers := internalmiddleware.RequireAccess(func(a models.DashboardAccess) bool { return a.CanViewTeacherLoad })
	canExport := internalmiddleware.RequireAccess(func(a models.DashboardAccess) bool { return a.CanExportReports })
	adminOnly := internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	roomHandler := handler.NewRoomHandler(roomSvc)
	programHandler := handler.NewProgramHandler(programSvc)
	routineHandler := handler.NewRoutineHandler(routineSvc, mergeSvc)
	settingsHandler := handler.NewSettingsHandler(timeSlotSvc, semesterSvc)

	semesters := secured.Group("/semesters/:semesterId")
	{
		semesters.GET("", canViewOccupancy, settingsHandler.Semester)
		semesters.PUT("", adminOnly, settingsHandler.UpsertSemester)
		semesters.GET("/occupancy", canViewOccupancy, dashboardHandler.Occupancy)
		semesters.GET("/courses", canViewCourses, dashboardHandler.Courses)
		semesters.GET("/teachers", canViewTeachers, dashboardHandler.Teachers)
		semesters.GET("/sections/forest", canViewCourses, dashboardHandler.SectionForest)
		semesters.GET("/rooms", canViewOccupancy, roomHandler.List)
		semesters.POST("/rooms", canEdit, roomHandler.Create)
		semesters.GET("/routine", canViewOccupancy, routineHandler.Grid)
		semesters.PUT("/routine/cells", canEdit, routineHandler.UpsertCell)
		semesters.DELETE("/routine/cells", canEdit, routineHandler.DeleteCell)
		semesters.PUT("/overrides", canEdit, routineHandler.UpsertOverrides)
	}

	secured.GET("/rooms/:id", canViewOccupancy, roomHandler.Get)
	secured.PUT("/rooms/:id", canEdit, roomHandler.Update)
	secured.GET("/programs", programHandler.List)
	secured.GET("/programs/:id", programHandler.Get)
	secured.POST("/programs", canEdit, programHandler.Create)
	secured.PUT("/programs/:id", canEdit, programHandler.Update)
	secured.PUT("/sections/:sectionId/merge", canEdit, routineHandler.Merge)
	secured.GET("/time-slots", settingsHandler.TimeSlots)
	secured.PUT("/time-slots", adminOnly, settingsHandler.ReplaceTimeSlots)
	secured.GET("/calendar/occurrences", dashboardHandler.Occurrences)

	if reportHandler != nil {
		secured.POST("/reports/generate", canExport, reportHandler.GenerateReport)
		secured.GET("/reports/status/:id", canExport, reportHandler.ReportStatus)
	}

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
