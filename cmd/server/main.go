// @title Push-bike heats API
// @version 1.0
// @description Batches, heat brackets, results and standings of push-bike race events.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
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

	"github.com/Dosada05/pushbike-heats/brackets"
	"github.com/Dosada05/pushbike-heats/config"
	"github.com/Dosada05/pushbike-heats/db"
	"github.com/Dosada05/pushbike-heats/handlers"
	"github.com/Dosada05/pushbike-heats/repositories"
	"github.com/Dosada05/pushbike-heats/routes"
	"github.com/Dosada05/pushbike-heats/services"
	"github.com/Dosada05/pushbike-heats/storage"
	"github.com/go-chi/chi/v5"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("qualifying_rounds", cfg.Heats.QualifyingRounds),
		slog.Int("max_rounds", cfg.Heats.MaxRounds),
		slog.String("later_split", cfg.Heats.LaterSplit.String()),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

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
	if err := db.Migrate(ctx, dbConn); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database connection established")

	// Экспорт итогов в Cloudflare R2 (опционально)
	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
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
		logger.Info("results export disabled, R2_ACCOUNT_ID not set")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	hubDone := make(chan struct{})
	go func() {
		wsHub.Run(ctx)
		close(hubDone)
	}()
	logger.Info("WebSocket Hub started")

	controller, err := brackets.NewController(cfg.Heats)
	if err != nil {
		logger.Error("invalid heat settings", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация репозиториев
	store := &services.Store{
		Events:      repositories.NewPostgresEventRepository(dbConn),
		Competitors: repositories.NewPostgresCompetitorRepository(dbConn),
		Batches:     repositories.NewPostgresBatchRepository(dbConn),
		Finishes:    repositories.NewPostgresFinishRecordRepository(dbConn),
		Rounds:      repositories.NewPostgresRoundRepository(dbConn),
		Tx:          repositories.NewTxRunner(dbConn),
	}

	// Инициализация сервисов
	batchService := services.NewBatchService(store, wsHub, logger)
	bracketService := services.NewBracketService(store, controller)
	scoreService := services.NewScoreService(store, controller, wsHub, uploader, logger)
	roundService := services.NewRoundService(store, controller, wsHub, uploader, logger)
	logger.Info("Services initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	routes.SetupRoutes(router, routes.Handlers{
		Events:    handlers.NewEventHandler(batchService),
		Brackets:  handlers.NewBracketHandler(bracketService),
		Finishes:  handlers.NewFinishHandler(scoreService),
		Rounds:    handlers.NewRoundHandler(roundService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, batchService),
	}, cfg.JWTSecretKey)
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

	exitCode := 0
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			exitCode = 1
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
			exitCode = 1
		} else {
			logger.Info("server shutdown complete")
		}
	}

	stop()
	<-hubDone
	logger.Info("application exited")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
