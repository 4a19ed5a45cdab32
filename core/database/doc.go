// Package database handles database connections and schema inspection.
//
// It wraps GORM to open MySQL, PostgreSQL or SQLite connections from the
// application's configuration. SQLite (":memory:") backs the test suites.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, configures the pool and
// pings the server before returning.
//
// # Schema Inspection
//
// GetTableColumns and HasIndex are used by the health feature to verify that
// the feed, article and account tables exist with the unique indexes the
// ingestion engine relies on for deduplication.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "feeds")
package database
