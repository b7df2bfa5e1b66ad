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
	"github.com/prohmpiriya/webtail-stripe/internal/di"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/gateway"
	"github.com/prohmpiriya/webtail-stripe/internal/metrics"
	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/pkg/config"
	"github.com/prohmpiriya/webtail-stripe/pkg/database"
	"github.com/prohmpiriya/webtail-stripe/pkg/kafka"
	"github.com/prohmpiriya/webtail-stripe/pkg/logger"
	"github.com/prohmpiriya/webtail-stripe/pkg/middleware"
	pkgredis "github.com/prohmpiriya/webtail-stripe/pkg/redis"
	"github.com/prohmpiriya/webtail-stripe/pkg/retry"
	"github.com/prohmpiriya/webtail-stripe/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(&logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Stripe payment plugin...", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	// Initialize telemetry
	tel, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	})
	if err != nil {
		appLog.Warn("Telemetry initialization failed", zap.Error(err))
	}
	if err := metrics.Init(); err != nil {
		appLog.Warn("Metrics initialization failed", zap.Error(err))
	}

	// Initialize database connection
	var db *database.PostgresDB
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MaxIdleConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnectTimeout:  5 * time.Second,
			Retry:           retry.DefaultConfig(),
			EnableTracing:   cfg.OTel.Enabled,
		})
		if err != nil {
			appLog.Warn("Database connection failed, using in-memory stores", zap.Error(err))
			db = nil
		} else {
			defer db.Close()
			if err := db.Migrate(ctx, repository.Schema...); err != nil {
				appLog.Fatal("Failed to apply schema", zap.Error(err))
			}
			appLog.Info("Database connected", zap.String("host", cfg.Database.Host))
		}
	} else {
		appLog.Warn("Database not configured, using in-memory stores (data will not persist)")
	}

	// Initialize Redis connection
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			Retry:        retry.DefaultConfig(),
		})
		if err != nil {
			appLog.Warn("Redis connection failed, attribute cache and idempotency disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	// Initialize Kafka producer
	var producer *kafka.Producer
	if cfg.Kafka.Enabled() {
		producer, err = kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn("Kafka connection failed, transaction events disabled", zap.Error(err))
			producer = nil
		} else {
			defer producer.Close()
			appLog.Info("Kafka producer connected", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		}
	}

	// Build dependency injection container
	container, err := di.NewContainer(&di.ContainerConfig{
		DB:                db,
		Redis:             redisClient,
		Producer:          producer,
		KafkaTopic:        cfg.Kafka.Topic,
		AttributeCacheTTL: cfg.Redis.CacheTTL,
		Gateway:           gateway.NewStripeFactory(nil),
		PluginConfig: &service.PluginConfig{
			Store: domain.Store{
				ID:       cfg.Store.ID,
				Name:     cfg.Store.Name,
				Location: cfg.Store.Location,
			},
			PrimaryCurrency: cfg.Store.PrimaryCurrency,
		},
	})
	if err != nil {
		appLog.Fatal("Failed to build container", zap.Error(err))
	}

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(telemetry.TracingMiddleware())
	router.Use(middleware.Logger(appLog, "/health", "/ready"))

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// Write operations replay their first response when Redis is available
	writeMiddleware := []gin.HandlerFunc{}
	if redisClient != nil {
		writeMiddleware = append(writeMiddleware, middleware.Idempotency(middleware.DefaultIdempotencyConfig(redisClient)))
	}
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeMiddleware...), h)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":      "ok",
				"version":     cfg.App.Version,
				"system_name": service.SystemName,
			})
		})

		v1.GET("/plugin", container.PaymentHandler.Descriptor)

		payments := v1.Group("/payments")
		{
			payments.POST("/process", write(container.PaymentHandler.ProcessPayment)...)
			payments.POST("/process-recurring", write(container.PaymentHandler.ProcessRecurringPayment)...)
			payments.POST("/capture", write(container.PaymentHandler.Capture)...)
			payments.POST("/refund", write(container.PaymentHandler.Refund)...)
			payments.POST("/void", write(container.PaymentHandler.Void)...)
			payments.POST("/cancel-recurring", write(container.PaymentHandler.CancelRecurringPayment)...)
			payments.POST("/post-process", container.PaymentHandler.PostProcessPayment)
			payments.POST("/can-repost", container.PaymentHandler.CanRePostProcessPayment)
			payments.POST("/additional-fee", container.PaymentHandler.AdditionalFee)
			payments.GET("/hidden", container.PaymentHandler.Hidden)
			payments.POST("/form/validate", container.PaymentHandler.ValidateForm)
			payments.POST("/form/info", container.PaymentHandler.PaymentInfo)
		}

		admin := v1.Group("/admin", middleware.AdminAuth(&middleware.AdminAuthConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			Role:   cfg.JWT.AdminRole,
		}))
		{
			admin.GET("/configure", container.AdminHandler.GetConfiguration)
			admin.POST("/configure", write(container.AdminHandler.Configure)...)
			admin.POST("/verify", container.AdminHandler.VerifyConnection)
			admin.POST("/install", write(container.AdminHandler.Install)...)
			admin.POST("/uninstall", write(container.AdminHandler.Uninstall)...)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		appLog.Info("Stripe payment plugin listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		appLog.Warn("Telemetry shutdown failed", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
