package reconcile

import (
	"context"
	"fmt"
	"time"

	"feedsync/core/fetcher"
	"feedsync/core/reconcile"
	"feedsync/feature/feeds/models"

	"gorm.io/gorm"
)

// feedColumns are overwritten on every ingestion, zero values included.
var feedColumns = []string{
	"title", "description", "link", "xmlurl", "date", "pubdate",
	"author", "language", "favicon", "copyright", "updated_at",
}

// UpsertFeed creates or updates the feed identified by meta.XMLURL and returns its id.
// created is true only when this call inserted the row.
// A nil meta, an empty XMLURL or one longer than models.MaxXMLURLLength is
// ErrMalformedFeed and nothing is written.
// Associations with accounts and articles are never touched.
func UpsertFeed(ctx context.Context, db *gorm.DB, meta *fetcher.FeedMeta) (id uint, created bool, err error) {
	if meta == nil || meta.XMLURL == "" {
		return 0, false, reconcile.Errorf(reconcile.ErrMalformedFeed, "document has no self link")
	}
	if len(meta.XMLURL) > models.MaxXMLURLLength {
		return 0, false, reconcile.Errorf(reconcile.ErrMalformedFeed, "self link exceeds %d bytes", models.MaxXMLURLLength)
	}

	existing, err := reconcile.FindOne[models.Feed](ctx, db, "xmlurl = ?", meta.XMLURL)
	if err != nil {
		return 0, false, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("lookup feed %s: %w", meta.XMLURL, err))
	}
	if existing != nil {
		return existing.ID, false, updateFeed(ctx, db, existing.ID, meta)
	}

	feed := feedFromMeta(meta)
	written, err := reconcile.InsertIfAbsent(ctx, db, feed)
	if err != nil {
		return 0, false, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("insert feed %s: %w", meta.XMLURL, err))
	}
	if written {
		return feed.ID, true, nil
	}

	// Another writer created it between lookup and insert.
	existing, err = reconcile.FindOne[models.Feed](ctx, db, "xmlurl = ?", meta.XMLURL)
	if err != nil {
		return 0, false, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("reload feed %s: %w", meta.XMLURL, err))
	}
	if existing == nil {
		return 0, false, reconcile.Errorf(reconcile.ErrStorage, "feed %s vanished after conflicting insert", meta.XMLURL)
	}
	return existing.ID, false, updateFeed(ctx, db, existing.ID, meta)
}

func updateFeed(ctx context.Context, db *gorm.DB, id uint, meta *fetcher.FeedMeta) error {
	values := feedFromMeta(meta)
	err := db.WithContext(ctx).
		Model(&models.Feed{ID: id}).
		Select(feedColumns).
		Updates(values).Error
	if err != nil {
		return reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("update feed %d: %w", id, err))
	}
	return nil
}

func feedFromMeta(meta *fetcher.FeedMeta) *models.Feed {
	return &models.Feed{
		Title:       meta.Title,
		Description: meta.Description,
		Link:        meta.Link,
		XMLURL:      meta.XMLURL,
		Date:        meta.Date,
		PubDate:     meta.PubDate,
		Author:      meta.Author,
		Language:    meta.Language,
		Favicon:     meta.Favicon,
		Copyright:   meta.Copyright,
		UpdatedAt:   time.Now(),
	}
}
