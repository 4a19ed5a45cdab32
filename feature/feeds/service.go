package feeds

import (
	"context"
	"fmt"
	"strings"

	"feedsync/core/fetcher"
	"feedsync/core/reconcile"
	"feedsync/feature/feeds/models"
	"feedsync/feature/feeds/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles feed operations.
type Service struct {
	db      *gorm.DB
	fetcher sync.DocumentFetcher
	orch    *sync.Orchestrator
	logger  *zap.Logger
}

// NewService creates a new feed service.
func NewService(db *gorm.DB, f sync.DocumentFetcher, orch *sync.Orchestrator, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		fetcher: f,
		orch:    orch,
		logger:  logger,
	}
}

// Register subscribes the store to the feed at url.
func (s *Service) Register(ctx context.Context, url string) (*sync.RegisterResult, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, reconcile.Errorf(reconcile.ErrInvalidInput, "url is required")
	}
	return s.orch.RegisterFeed(ctx, url)
}

// Refresh re-fetches a stored feed.
func (s *Service) Refresh(ctx context.Context, feedID uint) (*sync.RefreshResult, error) {
	return s.orch.RefreshFeed(ctx, feedID)
}

// RefreshAll refreshes every stored feed once.
func (s *Service) RefreshAll(ctx context.Context) ([]sync.RefreshOutcome, error) {
	return s.orch.RefreshAll(ctx)
}

// Preview fetches and parses url without storing anything.
func (s *Service) Preview(ctx context.Context, url string) (*fetcher.FeedDocument, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, reconcile.Errorf(reconcile.ErrInvalidInput, "url is required")
	}
	return s.fetcher.Fetch(ctx, url)
}

// GetFeed returns a stored feed.
func (s *Service) GetFeed(ctx context.Context, feedID uint) (*models.Feed, error) {
	feed, err := reconcile.FindOne[models.Feed](ctx, s.db, "id = ?", feedID)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("load feed %d: %w", feedID, err))
	}
	if feed == nil {
		return nil, reconcile.Errorf(reconcile.ErrNotFound, "feed %d", feedID)
	}
	return feed, nil
}

// GetArticle returns an article only if it belongs to feedID.
func (s *Service) GetArticle(ctx context.Context, feedID, articleID uint) (*models.Article, error) {
	article, err := reconcile.FindOne[models.Article](ctx, s.db, "id = ? AND feed_id = ?", articleID, feedID)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("load article %d: %w", articleID, err))
	}
	if article == nil {
		return nil, reconcile.Errorf(reconcile.ErrNotFound, "article %d in feed %d", articleID, feedID)
	}
	return article, nil
}
