package reconcile

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOne loads the first row of T matching query. It returns nil, nil when no row matches.
func FindOne[T any](ctx context.Context, db *gorm.DB, query any, args ...any) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where(query, args...).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// InsertIfAbsent inserts row unless it collides with an existing row on a unique index.
// It reports whether the row was written; a collision is not an error.
func InsertIfAbsent[T any](ctx context.Context, db *gorm.DB, row *T) (bool, error) {
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
