// Package feeds implements feed registration, refresh and lookup.
//
// # Components
//
//   - Service: validates input and delegates ingestion to sync.Orchestrator.
//   - Handler: exposes the HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /feeds {"url": "..."} : register a feed (201 {feed_id, articles}).
//   - POST /feeds/:id/refresh : re-fetch a feed (200 {feed, articles}).
//   - GET /feeds/:id : stored feed.
//   - GET /feeds/:id/articles/:articleId : article scoped to its feed.
//   - GET /feed/preview?url= : parse a remote document without storing it.
package feeds
