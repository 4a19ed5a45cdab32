// Package server holds the HTTP server configuration and the error-to-status
// mapping shared by every handler.
//
// The Fiber application itself is built in cmd/start.go; this package defines
// the settings it reads (listen port, API key, graceful shutdown bound).
//
// StatusFor maps error kinds: not found -> 404, malformed feed -> 422,
// fetch failure -> 502, invalid input -> 400, anything else -> 500.
package server
