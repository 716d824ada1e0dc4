package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/user/repost-crawler/internal/adapter/postgres"
	redis_adapter "github.com/user/repost-crawler/internal/adapter/redis"
	"github.com/user/repost-crawler/internal/adapter/repost"
	s3_adapter "github.com/user/repost-crawler/internal/adapter/s3"
	"github.com/user/repost-crawler/internal/delivery/http/handler"
	"github.com/user/repost-crawler/internal/delivery/http/router"
	"github.com/user/repost-crawler/internal/usecase"
	"github.com/user/repost-crawler/pkg/config"
	"github.com/user/repost-crawler/pkg/logger"
	"github.com/user/repost-crawler/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	slog.Info("Logger initialized", "level", cfg.LogLevel)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	ctx := context.Background()

	// --- PostgreSQL ---
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	if err := dbpool.Ping(ctx); err != nil {
		slog.Error("Unable to reach database", "error", err)
		os.Exit(1)
	}
	slog.Info("PostgreSQL connection pool established")

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		slog.Error("Unable to connect to Redis", "error", err)
		os.Exit(1)
	}
	slog.Info("Redis connection established")

	// --- S3 ---
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		slog.Error("Unable to load AWS configuration", "error", err)
		os.Exit(1)
	}
	s3Client := awss3.NewFromConfig(awsCfg)

	// --- Repositories ---
	gateway := postgres.NewGateway(dbpool)
	questionRepo := postgres.NewQuestionRepo(gateway)
	tagRepo := postgres.NewTagRepo(gateway)
	questionTagRepo := postgres.NewQuestionTagRepo(gateway)
	executionRepo := postgres.NewExecutionRepo(gateway)
	runLockRepo := redis_adapter.NewRunLockRepo(rdb)
	archiveRepo := s3_adapter.NewArchiveRepo(s3Client, cfg.S3Bucket, cfg.S3Prefix)
	extractor := repost.NewExtractor(cfg.UserAgent, time.Duration(cfg.PageLoadTimeoutSeconds)*time.Second)

	// --- Use Cases ---
	pipeline := usecase.NewPipeline(questionRepo, tagRepo, questionTagRepo, executionRepo, archiveRepo)
	harvester := usecase.NewHarvester(extractor, pipeline, runLockRepo,
		time.Duration(cfg.RunLockTTLMinutes)*time.Minute)
	reporting := usecase.NewReporting(questionRepo, tagRepo, executionRepo)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(harvester, reporting)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     httpRouter,
		ReadTimeout: 5 * time.Second,
		// POST /api/harvest runs the whole pipeline synchronously, so the
		// write timeout has to cover a full run, not a typical response.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
