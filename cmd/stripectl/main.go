package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prohmpiriya/webtail-stripe/internal/di"
	"github.com/prohmpiriya/webtail-stripe/internal/domain"
	"github.com/prohmpiriya/webtail-stripe/internal/repository"
	"github.com/prohmpiriya/webtail-stripe/internal/service"
	"github.com/prohmpiriya/webtail-stripe/pkg/config"
	"github.com/prohmpiriya/webtail-stripe/pkg/database"
	"github.com/prohmpiriya/webtail-stripe/pkg/logger"
	"github.com/prohmpiriya/webtail-stripe/pkg/retry"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	rootCmd := newRootCmd(openPlugin)
	rootCmd.Version = Version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openPlugin connects to the settings database and builds the plugin against it.
// The operator tool has no use for the in-memory stores, so a database is required.
func openPlugin(ctx context.Context) (service.PaymentPlugin, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "warn",
		ServiceName: cfg.App.Name + "-ctl",
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !cfg.Database.Enabled() {
		return nil, nil, fmt.Errorf("DB_HOST is not set: %w", domain.ErrInvalidRequest)
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		Retry:           retry.DefaultConfig(),
	})
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, repository.Schema...); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	container, err := di.NewContainer(&di.ContainerConfig{
		DB: db,
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
		db.Close()
		return nil, nil, err
	}

	logger.Get().Debug("stripectl connected", zap.String("host", cfg.Database.Host), zap.Int("store_id", cfg.Store.ID))

	cleanup := func() {
		db.Close()
		logger.Sync()
	}
	return container.Plugin, cleanup, nil
}
