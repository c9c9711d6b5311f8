package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/shivamgupta1990/hostel-grievance-api/internal/handler"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/repository"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/service"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/cache"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/config"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/database"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/logger"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/mailer"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/storage"
)

// @title Hostel Grievance API
// @version 1.0.0
// @description Backend for hostel grievance registration and triage
// @BasePath /
// @schemes http
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	throttleRepo := repository.NewThrottleRepository(nil)
	if cfg.Throttle.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, login throttle disabled", zap.Error(err))
		} else {
			throttleRepo = repository.NewThrottleRepository(redisClient)
			defer throttleRepo.Close() //nolint:errcheck
		}
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare uploads directory", "error", err)
	}

	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	grievanceRepo := repository.NewGrievanceRepository(db)

	authSvc := service.NewAuthService(studentRepo, adminRepo, throttleRepo, nil, logr, service.AuthConfig{
		TokenSecret:         cfg.JWT.Secret,
		TokenExpiry:         cfg.JWT.Expiration,
		Issuer:              cfg.JWT.Issuer,
		ThrottleEnabled:     cfg.Throttle.Enabled,
		ThrottleMaxAttempts: cfg.Throttle.MaxAttempts,
		ThrottleWindow:      cfg.Throttle.Window,
	})

	var notifier service.StatusNotifier
	if n := service.NewMailNotifier(mailer.New(cfg.Mail)); n != nil {
		notifier = n
	}

	grievanceSvc := service.NewGrievanceService(grievanceRepo, studentRepo, adminRepo, notifier, nil, logr)
	metricsSvc := service.NewMetricsService()

	r := handler.NewRouter(handler.RouterDeps{
		Config:     cfg,
		Logger:     logr,
		Auth:       authSvc,
		Grievances: grievanceSvc,
		Metrics:    metricsSvc,
		Uploads:    uploads,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
