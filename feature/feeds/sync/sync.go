package sync

import (
	"context"
	"fmt"

	"feedsync/core/fetcher"
	"feedsync/core/metrics"
	"feedsync/core/reconcile"
	"feedsync/feature/feeds/models"
	feedreconcile "feedsync/feature/feeds/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DocumentFetcher is the part of fetcher.Fetcher the orchestrator needs.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.FeedDocument, error)
}

// RegisterResult is returned by RegisterFeed.
type RegisterResult struct {
	FeedID   uint             `json:"feed_id"`
	Articles []models.Article `json:"articles"`
}

// RefreshResult is returned by RefreshFeed. Articles holds every article of
// the feed, newest first.
type RefreshResult struct {
	Feed     models.Feed      `json:"feed"`
	Articles []models.Article `json:"articles"`
}

// RefreshOutcome reports one feed of a RefreshAll run.
type RefreshOutcome struct {
	FeedID  uint   `json:"feed_id"`
	XMLURL  string `json:"xmlurl"`
	Created int    `json:"created"`
	Err     error  `json:"-"`
}

// Orchestrator chains fetch, feed upsert and article upsert.
// It holds no locks; concurrent runs are kept consistent by the unique indexes.
type Orchestrator struct {
	db      *gorm.DB
	fetcher DocumentFetcher
	logger  *zap.Logger
	metrics *metrics.Ingestion
}

// NewOrchestrator creates an Orchestrator. A nil m disables metrics.
func NewOrchestrator(db *gorm.DB, f DocumentFetcher, logger *zap.Logger, m *metrics.Ingestion) *Orchestrator {
	if m == nil {
		m = metrics.NewIngestion(nil)
	}
	return &Orchestrator{db: db, fetcher: f, logger: logger, metrics: m}
}

// RegisterFeed fetches url and stores its feed and new articles.
func (o *Orchestrator) RegisterFeed(ctx context.Context, url string) (result *RegisterResult, err error) {
	l := o.logger.With(zap.String("operation", "register"), zap.String("url", url))
	defer func() { o.finish(l, "register", err) }()

	doc, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	feedID, created, err := o.ingest(ctx, l, doc)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{FeedID: feedID, Articles: created}, nil
}

// RefreshFeed re-fetches a stored feed. An unknown feedID fails with
// reconcile.ErrNotFound before anything is fetched.
//
// New articles are attached to feedID. Feed metadata is written under the
// document's self link, which normally is the stored XMLURL.
func (o *Orchestrator) RefreshFeed(ctx context.Context, feedID uint) (*RefreshResult, error) {
	result, _, err := o.refresh(ctx, feedID)
	return result, err
}

// RefreshAll refreshes every stored feed once, one after another.
// A failing feed is recorded in its outcome and does not stop the run.
func (o *Orchestrator) RefreshAll(ctx context.Context) ([]RefreshOutcome, error) {
	var feeds []models.Feed
	if err := o.db.WithContext(ctx).Select("id", "xmlurl").Order("id").Find(&feeds).Error; err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("list feeds: %w", err))
	}

	outcomes := make([]RefreshOutcome, 0, len(feeds))
	for _, f := range feeds {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		_, created, err := o.refresh(ctx, f.ID)
		outcomes = append(outcomes, RefreshOutcome{FeedID: f.ID, XMLURL: f.XMLURL, Created: created, Err: err})
	}

	return outcomes, nil
}

func (o *Orchestrator) refresh(ctx context.Context, feedID uint) (result *RefreshResult, created int, err error) {
	l := o.logger.With(zap.String("operation", "refresh"), zap.Uint("feed_id", feedID))
	defer func() { o.finish(l, "refresh", err) }()

	feed, err := o.loadFeed(ctx, feedID)
	if err != nil {
		return nil, 0, err
	}

	doc, err := o.fetcher.Fetch(ctx, feed.XMLURL)
	if err != nil {
		return nil, 0, err
	}

	upsertedID, err := o.upsertFeed(ctx, doc.Meta)
	if err != nil {
		return nil, 0, err
	}
	if upsertedID != feedID {
		l.Warn("Self link points to another feed", zap.String("stored", feed.XMLURL), zap.String("document", doc.Meta.XMLURL))
	}

	articles, err := o.upsertArticles(ctx, feedID, doc.Items)
	if err != nil {
		return nil, len(articles), err
	}
	created = len(articles)

	feed, err = o.loadFeed(ctx, feedID)
	if err != nil {
		return nil, created, err
	}

	var all []models.Article
	err = o.db.WithContext(ctx).
		Where("feed_id = ?", feedID).
		Order("pubdate DESC").Order("id DESC").
		Find(&all).Error
	if err != nil {
		return nil, created, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("list articles of feed %d: %w", feedID, err))
	}

	l.Info("Feed refreshed", zap.Int("created", created), zap.Int("total", len(all)))
	return &RefreshResult{Feed: *feed, Articles: all}, created, nil
}

// ingest runs the feed and article upserts for a freshly fetched document.
func (o *Orchestrator) ingest(ctx context.Context, l *zap.Logger, doc *fetcher.FeedDocument) (uint, []models.Article, error) {
	feedID, err := o.upsertFeed(ctx, doc.Meta)
	if err != nil {
		return 0, nil, err
	}

	created, err := o.upsertArticles(ctx, feedID, doc.Items)
	if err != nil {
		return 0, nil, err
	}

	l.Info("Feed ingested", zap.Uint("feed_id", feedID), zap.Int("items", len(doc.Items)), zap.Int("created", len(created)))
	return feedID, created, nil
}

func (o *Orchestrator) upsertFeed(ctx context.Context, meta *fetcher.FeedMeta) (uint, error) {
	feedID, created, err := feedreconcile.UpsertFeed(ctx, o.db, meta)
	if err != nil {
		return 0, err
	}
	if created {
		o.metrics.FeedsCreated.Inc()
	} else {
		o.metrics.FeedsUpdated.Inc()
	}
	return feedID, nil
}

func (o *Orchestrator) upsertArticles(ctx context.Context, feedID uint, items []fetcher.ArticleItem) ([]models.Article, error) {
	created, err := feedreconcile.UpsertArticles(ctx, o.db, feedID, items)
	o.metrics.ArticlesCreated.Add(float64(len(created)))
	if err == nil {
		o.metrics.ArticlesSkipped.Add(float64(len(items) - len(created)))
	}
	return created, err
}

func (o *Orchestrator) loadFeed(ctx context.Context, feedID uint) (*models.Feed, error) {
	feed, err := reconcile.FindOne[models.Feed](ctx, o.db, "id = ?", feedID)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("load feed %d: %w", feedID, err))
	}
	if feed == nil {
		return nil, reconcile.Errorf(reconcile.ErrNotFound, "feed %d", feedID)
	}
	return feed, nil
}

func (o *Orchestrator) finish(l *zap.Logger, operation string, err error) {
	o.metrics.Runs.WithLabelValues(operation, metrics.Outcome(err)).Inc()
	if err != nil {
		l.Warn("Ingestion failed", zap.String("kind", metrics.Outcome(err)), zap.Error(err))
	}
}
