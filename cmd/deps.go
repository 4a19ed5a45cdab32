package cmd

import (
	"context"
	"fmt"

	"feedsync/core/config"
	"feedsync/core/database"
	"feedsync/core/fetcher"
	"feedsync/core/logger"
	"feedsync/core/metrics"
	"feedsync/core/storage"
	"feedsync/feature/feeds/models"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// deps holds everything a command needs, built once from configuration.
type deps struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	store   storage.Client
	fetcher *fetcher.Fetcher
	metrics *metrics.Ingestion
}

// bootstrap loads configuration and connects the database, migrating the
// schema. When archiving is enabled the storage client is created and the
// bucket ensured. Archive problems are logged and archiving is skipped.
func bootstrap(ctx context.Context, reg prometheus.Registerer) (*deps, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := models.Migrate(db); err != nil {
		return nil, err
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	d := &deps{cfg: cfg, logger: logg, db: db, metrics: metrics.NewIngestion(reg)}

	var opts []fetcher.Option
	if cfg.Storage.Archive {
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Archive disabled: storage client failed", zap.Error(err))
		} else {
			d.store = store
			archive := storage.NewArchive(store, cfg.Storage.Bucket)
			if err := archive.EnsureBucket(ctx); err != nil {
				logg.Warn("Archive disabled: bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
			} else {
				opts = append(opts, fetcher.WithArchive(archive))
			}
		}
	}

	d.fetcher = fetcher.New(cfg.Fetch, logg, opts...)
	return d, nil
}

// close releases the database connection and flushes the logger.
func (d *deps) close() {
	if sqlDB, err := d.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = d.logger.Sync()
}
