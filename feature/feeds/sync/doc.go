// Package sync runs the ingestion pipelines.
//
// RegisterFeed: fetch -> UpsertFeed -> UpsertArticles.
// RefreshFeed: load feed -> fetch its XMLURL -> UpsertFeed -> UpsertArticles
// -> reload the feed and its articles.
//
// Each stage failure ends the run with the stage's error kind. Work committed
// by earlier stages is kept. There are no retries.
package sync
