// Package config provides configuration management for feedsync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file (loaded through godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the archive bucket for raw feed documents
//   - Log: Logging level and format
//   - Fetch: timeouts and limits applied when retrieving remote feeds
//
// Every leaf field declares its default in a `default` struct tag. Environment
// variables map onto nested keys by replacing dots with underscores, so
// FETCH_MAX_ITEMS overrides fetch.max_items.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
