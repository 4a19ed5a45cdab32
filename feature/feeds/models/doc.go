// Package models defines the persisted entities: Feed, Article, Account and
// the two association rows carrying per-reader state (AccountFeed.SubDate,
// AccountArticle.Read/Starred/ReadDate).
//
// Two unique indexes back deduplication: idx_feeds_xmlurl on feeds.xmlurl and
// idx_articles_feed_key on articles(feed_id, key_hash).
package models
