// Package health checks the infrastructure the ingestion engine depends on.
//
// # Checks Provided
//
//   - Database: the connection answers a ping.
//   - Schema: every model table and column exists, plus the unique indexes
//     idx_feeds_xmlurl and idx_articles_feed_key.
//   - Archive: the raw document bucket exists (only when archiving is enabled).
//
// # HTTP Endpoints
//
//   - GET /health : runs all checks, 503 when one fails.
//   - GET /health/schema : schema check.
//   - GET /health/archive : archive check (supports ?fix=true).
package health
