// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/kiranakart/kirana-be/internal/adapters/db"
	"github.com/kiranakart/kirana-be/internal/adapters/payment"
	redis_a "github.com/kiranakart/kirana-be/internal/adapters/redis_adapter"
	"github.com/kiranakart/kirana-be/internal/adapters/storage"
	"github.com/kiranakart/kirana-be/internal/core/domain"
	"github.com/kiranakart/kirana-be/internal/core/ports"
	"github.com/kiranakart/kirana-be/internal/core/services"
	"github.com/kiranakart/kirana-be/internal/handlers"
	"github.com/kiranakart/kirana-be/internal/handlers/middleware"
	"github.com/kiranakart/kirana-be/internal/pkg/config"
	"github.com/kiranakart/kirana-be/internal/pkg/logger"
	"github.com/kiranakart/kirana-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting kirana kart API",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	inventoryService    *services.InventoryService
	cartService         *services.CartService
	checkoutService     *services.CheckoutService
	notificationService *services.NotificationService

	inventoryHandler    *handlers.InventoryHandler
	cartHandler         *handlers.CartHandler
	orderHandler        *handlers.OrderHandler
	notificationHandler *handlers.NotificationHandler
	dashboardHandler    *handlers.DashboardHandler
	exportHandler       *handlers.ExportHandler
	importHandler       *handlers.ImportHandler
	imageHandler        *handlers.ImageHandler
	healthHandler       *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	logger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	logger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            cfg.GetRedisAddr(),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, logger)
	cartStore := redis_a.NewCartStore(redisClient, cfg.Cart.TTL, logger)

	logger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}

	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	enqueuer := workers.NewEnqueuer(deps.asynqClient, logger)

	// Repositories
	inventoryRepo := db.NewInventoryRepository(database, logger)
	orderRepo := db.NewOrderRepository(database, logger)
	salesRepo := db.NewSalesRepository(database, logger)
	notificationRepo := db.NewNotificationRepository(database, logger)
	subscriptionRepo := db.NewSubscriptionRepository(database, logger)

	gateway := payment.NewRazorpayGateway(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpaySecret, logger)

	// Services
	deps.inventoryService = services.NewInventoryService(inventoryRepo, notificationRepo, enqueuer, database.Pool(), logger)
	deps.cartService = services.NewCartService(cartStore, inventoryRepo, logger)
	deps.checkoutService = services.NewCheckoutService(orderRepo, cartStore, gateway, logger)
	deps.notificationService = services.NewNotificationService(notificationRepo, subscriptionRepo, inventoryRepo, logger)

	// Handlers
	deps.inventoryHandler = handlers.NewInventoryHandler(deps.inventoryService, logger)
	deps.cartHandler = handlers.NewCartHandler(deps.cartService, logger)
	deps.orderHandler = handlers.NewOrderHandler(deps.checkoutService, logger)
	deps.notificationHandler = handlers.NewNotificationHandler(deps.notificationService, logger)
	deps.dashboardHandler = handlers.NewDashboardHandler(salesRepo, deps.inventoryService, deps.redisCache, logger)
	deps.exportHandler = handlers.NewExportHandler(deps.inventoryService, logger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, logger)

	maxFileSize := int64(cfg.FileProcessing.CSVMaxSizeMB) * 1024 * 1024
	deps.importHandler = handlers.NewImportHandler(enqueuer, logger, maxFileSize, cfg.FileProcessing.TempDir)

	var storageClient storage.StorageClient
	if cfg.AWS.S3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		storageClient = s3Storage
	} else {
		storageClient = storage.NewLocalStorage(cfg.FileProcessing.TempDir, logger)
	}
	deps.imageHandler = handlers.NewImageHandler(storageClient, deps.inventoryService, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(logger)(handler)
		handler = middleware.Recovery(logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	handler = middleware.SecureHeaders(handler)

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	authed := middleware.Authenticate(cfg.Security.JWTSecret)
	ownerOnly := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin)(h))
	}
	userOnly := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)

	// Inventory endpoints
	mux.HandleFunc("GET "+apiV1+"/inventory/{id}", deps.inventoryHandler.GetItem)
	mux.HandleFunc("GET "+apiV1+"/inventory", deps.inventoryHandler.ListItems)
	mux.Handle("POST "+apiV1+"/inventory", ownerOnly(deps.inventoryHandler.CreateItem))
	mux.Handle("PUT "+apiV1+"/inventory/{id}", ownerOnly(deps.inventoryHandler.UpdateItem))
	mux.Handle("DELETE "+apiV1+"/inventory/{id}", ownerOnly(deps.inventoryHandler.DeleteItem))
	mux.Handle("POST "+apiV1+"/inventory/{id}/restock", ownerOnly(deps.inventoryHandler.RestockItem))
	mux.Handle("POST "+apiV1+"/inventory/{id}/adjust", ownerOnly(deps.inventoryHandler.AdjustQuantity))
	mux.Handle("POST "+apiV1+"/inventory/{id}/image", ownerOnly(deps.imageHandler.UploadImage))
	mux.Handle("GET "+apiV1+"/stores/{id}/inventory/low-stock", ownerOnly(deps.inventoryHandler.LowStock))

	// Restock subscriptions
	mux.Handle("POST "+apiV1+"/inventory/{id}/subscribe", userOnly(deps.notificationHandler.Subscribe))
	mux.Handle("DELETE "+apiV1+"/inventory/{id}/subscribe", userOnly(deps.notificationHandler.Unsubscribe))

	// Cart endpoints
	mux.Handle("GET "+apiV1+"/cart", userOnly(deps.cartHandler.GetCart))
	mux.Handle("POST "+apiV1+"/cart/items", userOnly(deps.cartHandler.AddItem))
	mux.Handle("PATCH "+apiV1+"/cart/items/{id}", userOnly(deps.cartHandler.UpdateQuantity))
	mux.Handle("DELETE "+apiV1+"/cart/items/{id}", userOnly(deps.cartHandler.RemoveItem))
	mux.Handle("DELETE "+apiV1+"/cart", userOnly(deps.cartHandler.ClearCart))

	// Checkout and orders
	mux.Handle("POST "+apiV1+"/checkout", userOnly(deps.orderHandler.Checkout))
	mux.Handle("GET "+apiV1+"/orders", userOnly(deps.orderHandler.ListOrders))
	mux.Handle("GET "+apiV1+"/orders/{id}", userOnly(deps.orderHandler.GetOrder))
	mux.Handle("GET "+apiV1+"/orders/{id}/payment", userOnly(deps.orderHandler.PaymentParams))
	mux.Handle("POST "+apiV1+"/orders/{id}/payment/confirm", userOnly(deps.orderHandler.ConfirmPayment))
	mux.Handle("PATCH "+apiV1+"/orders/{id}/status", ownerOnly(deps.orderHandler.UpdateStatus))
	mux.Handle("GET "+apiV1+"/stores/{id}/orders", ownerOnly(deps.orderHandler.ListStoreOrders))

	// Notifications
	mux.Handle("GET "+apiV1+"/notifications", userOnly(deps.notificationHandler.List))
	mux.Handle("GET "+apiV1+"/notifications/unread-count", userOnly(deps.notificationHandler.UnreadCount))
	mux.Handle("POST "+apiV1+"/notifications/{id}/read", userOnly(deps.notificationHandler.MarkRead))
	mux.Handle("POST "+apiV1+"/notifications/read-all", userOnly(deps.notificationHandler.MarkAllRead))

	// Dashboard, import and export
	mux.Handle("GET "+apiV1+"/stores/{id}/dashboard", ownerOnly(deps.dashboardHandler.GetDashboard))
	mux.Handle("POST "+apiV1+"/import/csv", ownerOnly(deps.importHandler.ImportCSV))
	mux.Handle("GET "+apiV1+"/stores/{id}/export/excel", ownerOnly(deps.exportHandler.ExportExcel))
	mux.Handle("GET "+apiV1+"/stores/{id}/export/json", ownerOnly(deps.exportHandler.ExportJSON))

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
