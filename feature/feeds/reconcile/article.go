package reconcile

import (
	"context"
	"fmt"

	"feedsync/core/fetcher"
	"feedsync/core/reconcile"
	"feedsync/feature/feeds/models"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

// sanitizer is safe for concurrent use once built.
var sanitizer = bluemonday.UGCPolicy()

// UpsertArticles stores the items not yet known under feedID and returns the
// newly created articles in input order. Existing articles are left as they are.
// Stored descriptions are sanitised with the UGC policy, so they may differ from
// the fetched item's markup.
//
// Items sharing a key collapse to the first occurrence. The first storage
// failure stops the run; articles inserted before it stay.
func UpsertArticles(ctx context.Context, db *gorm.DB, feedID uint, items []fetcher.ArticleItem) ([]models.Article, error) {
	feed, err := reconcile.FindOne[models.Feed](ctx, db, "id = ?", feedID)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("lookup feed %d: %w", feedID, err))
	}
	if feed == nil {
		return nil, reconcile.Errorf(reconcile.ErrNotFound, "feed %d", feedID)
	}

	created := make([]models.Article, 0, len(items))
	seen := make(map[Key]struct{}, len(items))

	for _, item := range items {
		key := KeyOf(item)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		hash := key.Hash()
		existing, err := reconcile.FindOne[models.Article](ctx, db,
			"feed_id = ? AND key_hash = ? AND guid = ? AND link = ?", feedID, hash, key.GUID, key.Link)
		if err != nil {
			return created, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("lookup article %q: %w", key.Link, err))
		}
		if existing != nil {
			continue
		}

		article := articleFromItem(feedID, hash, item)
		written, err := reconcile.InsertIfAbsent(ctx, db, article)
		if err != nil {
			return created, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("insert article %q: %w", key.Link, err))
		}
		if !written {
			continue
		}
		created = append(created, *article)
	}

	return created, nil
}

func articleFromItem(feedID uint, hash string, item fetcher.ArticleItem) *models.Article {
	return &models.Article{
		FeedID:      feedID,
		KeyHash:     hash,
		GUID:        item.GUID,
		Title:       item.Title,
		Description: sanitizer.Sanitize(item.Description),
		Link:        item.Link,
		Date:        item.Date,
		PubDate:     item.PubDate,
		Author:      item.Author,
	}
}
