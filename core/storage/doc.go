// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so storage
// interactions can be mocked in unit tests (see core/storage/mocks). Both AWS S3
// and self-hosted MinIO instances are supported.
//
// # Archive
//
// Archive keeps a copy of every raw feed document the fetcher retrieves when
// storage.archive is enabled. Objects live under
//
//	documents/<sha256(feed url)[:8]>/<UTC timestamp>.xml
//
// so successive snapshots of one feed sort chronologically. Archiving is
// auxiliary: ingestion never depends on it.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	archive := storage.NewArchive(client, cfg.Storage.Bucket)
//	key, err := archive.Put(ctx, url, body, "application/rss+xml")
package storage
