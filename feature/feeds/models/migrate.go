package models

import (
	"fmt"

	"gorm.io/gorm"
)

// All lists every model in migration order.
func All() []any {
	return []any{&Feed{}, &Article{}, &Account{}, &AccountFeed{}, &AccountArticle{}}
}

// Migrate creates or updates the schema, including the join tables.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Account{}, "Feeds", &AccountFeed{}); err != nil {
		return fmt.Errorf("setup account_feeds: %w", err)
	}
	if err := db.SetupJoinTable(&Account{}, "Articles", &AccountArticle{}); err != nil {
		return fmt.Errorf("setup account_articles: %w", err)
	}
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	for _, stmt := range ExactMatchStatements(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// ExactMatchStatements returns the DDL that makes feeds.xmlurl compare byte for byte
// on dialects whose default collation folds case or pads trailing spaces.
// Sqlite and postgres already compare exactly.
func ExactMatchStatements(dialect string) []string {
	switch dialect {
	case "mysql":
		return []string{fmt.Sprintf(
			"ALTER TABLE `feeds` MODIFY `xmlurl` varchar(%d) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
			MaxXMLURLLength,
		)}
	default:
		return nil
	}
}
