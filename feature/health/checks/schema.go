package checks

import (
	"fmt"

	"feedsync/core/database"
	"feedsync/feature/feeds/models"

	"gorm.io/gorm"
)

// SchemaReport is the result of a schema check.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Indexes map[string]bool        `json:"indexes"`
	Errors  []string               `json:"errors"`
}

// TableReport lists what is missing from one table.
type TableReport struct {
	Exists         bool     `json:"exists"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

type indexCheck struct {
	model any
	name  string
}

var requiredIndexes = []indexCheck{
	{&models.Feed{}, models.FeedXMLURLIndex},
	{&models.Article{}, models.ArticleKeyIndex},
}

// CheckSchema compares the live schema with the models: every table and
// column must exist, and so must the two dedup indexes.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Indexes: make(map[string]bool),
	}

	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}
		table := stmt.Schema.Table

		tbl := TableReport{MissingColumns: []string{}, Status: "ok"}
		actual, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		tbl.Exists = actual != nil

		present := make(map[string]bool, len(actual))
		for _, col := range actual {
			present[col.Field] = true
		}
		for _, name := range stmt.Schema.DBNames {
			if !present[name] {
				tbl.MissingColumns = append(tbl.MissingColumns, name)
			}
		}

		if !tbl.Exists || len(tbl.MissingColumns) > 0 {
			tbl.Status = "error"
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	for _, idx := range requiredIndexes {
		ok := database.HasIndex(db, idx.model, idx.name)
		report.Indexes[idx.name] = ok
		if !ok {
			report.Matched = false
		}
	}

	return report, nil
}
