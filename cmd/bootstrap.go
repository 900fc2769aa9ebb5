package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"wedding/site/internal/config"
	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/internal/storage"
)

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("log.level: %w", err)
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	return zcfg.Build()
}

// openDatabase connects and, when enabled, migrates the schema.
func openDatabase(cfg config.DatabaseConfig, logger *zap.Logger, migrate bool) (*gorm.DB, error) {
	db, err := config.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}
	if migrate {
		if err := model.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("auto-migrate: %w", err)
		}
		logger.Info("database migration completed", zap.String("driver", cfg.Driver))
	}
	return db, nil
}

func newStateStore(cfg *config.Config, logger *zap.Logger) (repository.StateStore, error) {
	switch cfg.State.Backend {
	case "redis":
		client, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("using Redis state store")
		return repository.NewRedisStateStore(client, appName+":"), nil
	case "memory", "":
		logger.Info("using in-memory state store")
		return repository.NewMemoryStateStore(), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}
}

// newObjectStore returns the upload store. The memory store is also returned
// on its own so the router can serve its objects.
func newObjectStore(cfg *config.Config, logger *zap.Logger) (storage.ObjectStore, *storage.MemoryStore, error) {
	switch cfg.Storage.Backend {
	case "s3":
		store, err := storage.NewS3Store(cfg.Storage)
		if err != nil {
			return nil, nil, fmt.Errorf("init s3 storage: %w", err)
		}
		logger.Info("using S3 object storage", zap.String("region", cfg.Storage.S3.Region))
		return store, nil, nil
	case "memory", "":
		base := cfg.Storage.PublicBaseURL
		if base == "" {
			base = cfg.Site.BaseURL
		}
		store := storage.NewMemoryStore(base)
		logger.Warn("using in-memory object storage; uploads are lost on restart")
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
