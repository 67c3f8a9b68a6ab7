// cmd/worker/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/kiranakart/kirana-be/internal/adapters/db"
	redis_a "github.com/kiranakart/kirana-be/internal/adapters/redis_adapter"
	"github.com/kiranakart/kirana-be/internal/adapters/storage"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/core/services"
	"github.com/kiranakart/kirana-be/internal/pkg/config"
	"github.com/kiranakart/kirana-be/internal/pkg/logger"
	"github.com/kiranakart/kirana-be/internal/workers"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting kirana kart worker",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx := context.Background()

	// The worker needs far fewer connections than the API
	database, err := db.NewDatabase(ctx, &db.Config{
		Host:              cfg.Database.Host,
		Port:              cfg.Database.Port,
		User:              cfg.Database.User,
		Password:          cfg.Database.Password,
		Database:          cfg.Database.Name,
		SSLMode:           cfg.Database.SSLMode,
		MaxConnections:    10,
		MinConnections:    2,
		MaxConnLifetime:   cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
		ConnectTimeout:    cfg.Database.ConnectTimeout,
	}, slogger)
	if err != nil {
		slogger.Error("failed to initialize database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slogger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	// The restock processor fans out by enqueuing email tasks, so the worker
	// carries its own client.
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	enqueuer := workers.NewEnqueuer(asynqClient, slogger)

	inventoryRepo := db.NewInventoryRepository(database, slogger)
	notificationRepo := db.NewNotificationRepository(database, slogger)
	subscriptionRepo := db.NewSubscriptionRepository(database, slogger)
	userRepo := db.NewUserRepository(database, slogger)
	salesRepo := db.NewSalesRepository(database, slogger)

	inventoryService := services.NewInventoryService(inventoryRepo, notificationRepo, enqueuer, database.Pool(), slogger)

	var storageClient storage.StorageClient
	if cfg.AWS.S3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, slogger)
		if err != nil {
			slogger.Error("failed to initialize S3 storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		storageClient = s3Storage
	} else {
		storageClient = storage.NewLocalStorage(cfg.FileProcessing.TempDir, slogger)
	}

	restockProcessor := workers.NewRestockProcessor(cache, subscriptionRepo, userRepo, enqueuer, slogger)
	emailProcessor := workers.NewEmailProcessor(cfg, slogger)
	csvProcessor := workers.NewCSVProcessor(inventoryService, slogger)
	analyticsProcessor := workers.NewAnalyticsProcessor(salesRepo, cache, storageClient, slogger)
	cleanupProcessor := workers.NewCleanupProcessor(notificationRepo, cfg, slogger)

	srv := asynq.NewServer(asynqRedisOpt, asynq.Config{
		Concurrency:     cfg.Asynq.Concurrency,
		Queues:          cfg.Asynq.Queues,
		StrictPriority:  cfg.Asynq.StrictPriority,
		ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(slogger)),
		RetryDelayFunc:  exponentialBackoff,
		ShutdownTimeout: cfg.Asynq.ShutdownTimeout,
		HealthCheckFunc: makeHealthCheck(slogger),
		Logger:          newAsynqLogger(slogger),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(ports.TaskRestockFanout, restockProcessor.ProcessRestockFanout)
	mux.HandleFunc(ports.TaskEmailSend, emailProcessor.SendEmail)
	mux.HandleFunc(ports.TaskCSVImport, csvProcessor.ProcessCSV)
	mux.HandleFunc(ports.TaskAnalytics, analyticsProcessor.RollupSales)
	mux.HandleFunc(ports.TaskCleanup, cleanupProcessor.Run)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("worker started",
			slog.Int("concurrency", cfg.Asynq.Concurrency),
			slog.Any("queues", cfg.Asynq.Queues),
		)
		serverErrors <- srv.Run(mux)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil {
			slogger.Error("worker error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received", slog.String("signal", sig.String()))
		srv.Shutdown()
		slogger.Info("worker shutdown complete")
	}
}

func makeErrorHandler(slogger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		level := slog.LevelWarn
		if retried >= maxRetry {
			level = slog.LevelError
		}

		slogger.Log(ctx, level, "task failed",
			slog.String("type", task.Type()),
			slog.Int("retried", retried),
			slog.Int("max_retry", maxRetry),
			slog.String("error", err.Error()),
		)
	}
}

// exponentialBackoff doubles the delay per retry, capped at ten minutes
func exponentialBackoff(n int, err error, task *asynq.Task) time.Duration {
	delay := time.Second << uint(n)
	if delay > 10*time.Minute {
		delay = 10 * time.Minute
	}
	return delay
}

func makeHealthCheck(slogger *slog.Logger) func(error) {
	return func(err error) {
		if err != nil {
			slogger.Error("worker health check failed", slog.String("error", err.Error()))
		}
	}
}

// asynqLogger adapts slog to asynq's logger interface
type asynqLogger struct {
	slogger *slog.Logger
}

func newAsynqLogger(slogger *slog.Logger) *asynqLogger {
	return &asynqLogger{slogger: slogger.With(slog.String("component", "asynq"))}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.slogger.Debug(sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.slogger.Info(sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.slogger.Warn(sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.slogger.Error(sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) {
	l.slogger.Error(sprint(args...))
	os.Exit(1)
}

func sprint(args ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintln(args...))
}
