package health

import (
	"context"

	"feedsync/core/storage"
	"feedsync/feature/health/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs the health checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new health service. client may be nil when archiving is off.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckDatabase pings the database.
func (s *Service) CheckDatabase(ctx context.Context) error {
	return checks.CheckDatabase(ctx, s.db)
}

// CheckSchema compares the live schema with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db)
}

// ArchiveEnabled reports whether a storage client is configured.
func (s *Service) ArchiveEnabled() bool {
	return s.client != nil
}

// CheckArchive verifies the archive bucket.
func (s *Service) CheckArchive(ctx context.Context) (*checks.ArchiveReport, error) {
	return checks.CheckArchive(ctx, s.client, s.bucket)
}

// FixArchive creates the archive bucket.
func (s *Service) FixArchive(ctx context.Context) error {
	return checks.FixArchive(ctx, s.client, s.bucket, s.logger)
}

// Report runs every check and reports whether all passed.
func (s *Service) Report(ctx context.Context) (map[string]any, bool) {
	report := make(map[string]any)
	healthy := true

	if err := s.CheckDatabase(ctx); err != nil {
		report["database"] = map[string]any{"status": "error", "error": err.Error()}
		healthy = false
	} else {
		report["database"] = map[string]any{"status": "ok"}
	}

	if schema, err := s.CheckSchema(); err != nil {
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
		healthy = false
	} else {
		report["schema"] = schema
		healthy = healthy && schema.Matched
	}

	if !s.ArchiveEnabled() {
		report["archive"] = map[string]any{"status": "disabled"}
	} else if archive, err := s.CheckArchive(ctx); err != nil {
		report["archive"] = map[string]any{"status": "error", "error": err.Error()}
		healthy = false
	} else {
		report["archive"] = archive
		healthy = healthy && archive.BucketExists
	}

	return report, healthy
}
