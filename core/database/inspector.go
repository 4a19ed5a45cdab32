package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo describes one column of an existing table.
type ColumnInfo struct {
	Field    string
	Type     string
	Nullable bool
	Primary  bool
	Unique   bool
}

// GetTableColumns retrieves the column definitions for a given table.
// A missing table yields an empty result, not an error.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	migrator := db.Migrator()
	if !migrator.HasTable(tableName) {
		return nil, nil
	}

	types, err := migrator.ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(types))
	for _, ct := range types {
		col := ColumnInfo{
			Field: strings.ToLower(ct.Name()),
			Type:  strings.ToLower(ct.DatabaseTypeName()),
		}
		if nullable, ok := ct.Nullable(); ok {
			col.Nullable = nullable
		}
		if pk, ok := ct.PrimaryKey(); ok {
			col.Primary = pk
		}
		if unique, ok := ct.Unique(); ok {
			col.Unique = unique
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// HasIndex reports whether the named index exists on the model's table.
func HasIndex(db *gorm.DB, model any, indexName string) bool {
	return db.Migrator().HasIndex(model, indexName)
}
