package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/cineboard/cineboard-api/api/swagger"
	"github.com/cineboard/cineboard-api/internal/handler"
	"github.com/cineboard/cineboard-api/internal/middleware"
	"github.com/cineboard/cineboard-api/internal/models"
	"github.com/cineboard/cineboard-api/internal/repository"
	"github.com/cineboard/cineboard-api/internal/service"
	"github.com/cineboard/cineboard-api/pkg/cache"
	"github.com/cineboard/cineboard-api/pkg/config"
	"github.com/cineboard/cineboard-api/pkg/database"
	"github.com/cineboard/cineboard-api/pkg/logger"
	corsmiddleware "github.com/cineboard/cineboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cineboard/cineboard-api/pkg/middleware/requestid"
	"github.com/cineboard/cineboard-api/pkg/storage"
)

// @title Cineboard API
// @version 1.0.0
// @description Film production scheduling service: scene catalog, shoot-day synthesis, calendar views, and call sheet exports
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store, err := storage.NewLocalStorage(cfg.CallSheets.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare call sheet storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.CallSheets.SignedURLSecret, cfg.CallSheets.SignedURLTTL)

	validate := validator.New()

	sceneRepo := repository.NewSceneRepository(db)
	eventRepo := repository.NewScheduleEventRepository(db)
	cacheRepo := repository.NewScheduleCacheRepository(redisClient, logr)

	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		logr.Sugar().Fatalw("failed to hash admin password", "error", err)
	}
	roster := []models.User{{
		ID:           uuid.NewString(),
		Email:        cfg.Auth.AdminEmail,
		Name:         cfg.Auth.AdminName,
		Role:         "producer",
		PasswordHash: string(adminHash),
		Active:       true,
	}}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(roster, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	sceneSvc := service.NewSceneService(sceneRepo, validate, logr)
	optimizer := service.NewOptimizerAdapter(
		&http.Client{Timeout: cfg.Optimizer.Timeout},
		logr,
		service.OptimizerAdapterConfig{BaseURL: cfg.Optimizer.BaseURL, APIKey: cfg.Optimizer.APIKey},
	)
	scheduleSvc := service.NewScheduleService(sceneRepo, eventRepo, cacheRepo, optimizer, metricsSvc, validate, logr, service.ScheduleServiceConfig{
		WorkingHoursPerDay: cfg.Scheduler.WorkingHoursPerDay,
		CacheTTL:           cfg.Scheduler.CacheTTL,
	})
	calendarSvc := service.NewCalendarService(scheduleSvc, logr)
	editorSvc := service.NewEditorService(eventRepo, cacheRepo, logr, service.EditorConfig{
		SessionTTL: cfg.Scheduler.EditSessionTTL,
	})
	callSheetSvc := service.NewCallSheetService(eventRepo, store, signer, metricsSvc, logr, cfg.CallSheets.WorkerConcurrency, service.CallSheetConfig{
		ProductionTitle: cfg.CallSheets.ProductionTitle,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callSheetSvc.Start(ctx)
	defer callSheetSvc.Stop()

	authHandler := handler.NewAuthHandler(authSvc)
	sceneHandler := handler.NewSceneHandler(sceneSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	editorHandler := handler.NewEditorHandler(editorSvc)
	callSheetHandler := handler.NewCallSheetHandler(callSheetSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	// Signed download tokens carry their own authentication.
	api.GET("/call-sheets/download", callSheetHandler.Download)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/scenes", sceneHandler.List)
		protected.POST("/scenes/import", sceneHandler.Import)
		protected.PATCH("/scenes/:id/status", sceneHandler.UpdateStatus)

		protected.GET("/schedule/clusters", scheduleHandler.Clusters)
		protected.POST("/schedule/generate", scheduleHandler.Generate)
		protected.POST("/schedule/optimize", scheduleHandler.Optimize)
		protected.GET("/schedule/events", scheduleHandler.Events)

		protected.GET("/calendar/day", calendarHandler.DayEvents)
		protected.GET("/calendar/:year/:month", calendarHandler.MonthGrid)

		protected.POST("/events/:id/edit", editorHandler.Begin)
		protected.PATCH("/events/:id/draft", editorHandler.UpdateDraft)
		protected.POST("/events/:id/save", editorHandler.Save)
		protected.POST("/events/:id/cancel", editorHandler.Cancel)

		protected.POST("/events/:id/call-sheet", callSheetHandler.Generate)
		protected.POST("/call-sheets/export", callSheetHandler.ExportAll)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
