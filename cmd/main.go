package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benchboss/lineup-system/config"
	"github.com/benchboss/lineup-system/db"
	"github.com/benchboss/lineup-system/handlers"
	"github.com/benchboss/lineup-system/repositories"
	api "github.com/benchboss/lineup-system/routes"
	"github.com/benchboss/lineup-system/rotation"
	"github.com/benchboss/lineup-system/services"
	"github.com/benchboss/lineup-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const schedulerInterval = 60 * time.Second // как часто закрываются прошедшие игры

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2). Без настроенного R2
	// приложение работает, но логотипы и фото недоступны.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 is not configured, file uploads are disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := rotation.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	availabilityRepo := repositories.NewPostgresAvailabilityRepository(dbConn)
	battingRepo := repositories.NewPostgresBattingOrderRepository(dbConn)
	fieldingRepo := repositories.NewPostgresFieldingRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	adminService := services.NewAdminUserService(userRepo)
	dashboardService := services.NewDashboardService(userRepo, teamRepo, gameRepo, fieldingRepo)
	teamService := services.NewTeamService(teamRepo, uploader)
	playerService := services.NewPlayerService(teamRepo, playerRepo, uploader)
	gameService := services.NewGameService(gameRepo, teamRepo)
	availabilityService := services.NewAvailabilityService(gameRepo, teamRepo, playerRepo, availabilityRepo)
	battingService := services.NewBattingOrderService(dbConn, gameRepo, teamRepo, playerRepo, battingRepo, wsHub)
	analyticsService := services.NewAnalyticsService(teamRepo, playerRepo, gameRepo, battingRepo, fieldingRepo)

	generator := rotation.NewFairRotationGenerator()
	rotationService := services.NewRotationService(
		dbConn,
		gameRepo,
		teamRepo,
		fieldingRepo,
		availabilityService,
		analyticsService,
		generator,
		wsHub,
	)
	logger.Info("Services initialized")

	// Планировщик: переводит прошедшие запланированные игры в completed.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("Past-games scheduler started", slog.Duration("interval", schedulerInterval))

		if n, err := gameService.AutoCompletePastGames(context.Background()); err != nil {
			logger.Error("Scheduler: initial run failed", slog.Any("error", err))
		} else if n > 0 {
			logger.Info("Scheduler: completed past games", slog.Int64("count", n))
		}

		for range ticker.C {
			n, err := gameService.AutoCompletePastGames(context.Background())
			if err != nil {
				logger.Error("Scheduler: periodic run failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.Info("Scheduler: completed past games", slog.Int64("count", n))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	gameHandler := handlers.NewGameHandler(gameService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	battingHandler := handlers.NewBattingOrderHandler(battingService)
	rotationHandler := handlers.NewRotationHandler(rotationService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	adminHandler := handlers.NewAdminUserHandler(adminService, emailService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, gameService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		teamHandler,
		playerHandler,
		gameHandler,
		availabilityHandler,
		battingHandler,
		rotationHandler,
		analyticsHandler,
		adminHandler,
		dashboardHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
