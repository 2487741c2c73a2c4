package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hiring-backend/config"
	_ "go-hiring-backend/docs" // Important for Swagger
	v1 "go-hiring-backend/internal/delivery/http/v1"
	"go-hiring-backend/internal/domain"
	"go-hiring-backend/internal/repository/postgres"
	"go-hiring-backend/internal/usecase"
	"go-hiring-backend/pkg/database"
	"go-hiring-backend/pkg/logger"
	redisx "go-hiring-backend/pkg/redis"
	"go-hiring-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// @title           Hiring Backend API
// @version         1.0
// @description     Interview negotiation and lifecycle engine for the hiring marketplace.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting hiring backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (webhook replay cache; optional)
	var replay domain.WebhookReplayCache
	if err := redisx.Initialize(redisx.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, webhook replay cache disabled", "error", err)
	} else {
		replay = redisx.NewReplayCache(time.Duration(cfg.WebhookReplayTTLMin) * time.Minute)
		defer redisx.Close()
	}

	// 5. Setup Repositories
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	// 6. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	notifier := usecase.NewNotificationDispatcher(notificationRepo)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, applicationRepo, jobRepo, notifier, validate, cfg.FrontendURL)
	bridgeUC := usecase.NewCalendarBridgeUsecase(interviewRepo, applicationRepo, jobRepo, notifier, replay)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		InterviewUC:    interviewUC,
		BridgeUC:       bridgeUC,
		NotificationUC: notificationUC,
		Config:         cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
