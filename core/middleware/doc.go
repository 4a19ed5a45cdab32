// Package middleware groups the Fiber middleware shared by every feature.
//
//   - auth: API key check (X-API-Key or Bearer token), skipped for public paths.
//   - rayid: per-request id stored in locals and echoed in the X-Ray-ID header.
package middleware
