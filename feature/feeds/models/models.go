package models

import (
	"time"
)

// Feed is a syndication source, unique by its canonical XMLURL.
type Feed struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Link        string     `gorm:"size:2048" json:"link"`
	XMLURL      string     `gorm:"column:xmlurl;size:768;not null;uniqueIndex:idx_feeds_xmlurl" json:"xmlurl"`
	Date        *time.Time `json:"date"`
	PubDate     *time.Time `gorm:"column:pubdate" json:"pubdate"`
	Author      string     `json:"author"`
	Language    string     `gorm:"size:32" json:"language"`
	Favicon     string     `gorm:"size:2048" json:"favicon"`
	Copyright   string     `json:"copyright"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Articles []Article `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Article is one entry of a feed, unique per feed by its (guid, link) key.
// KeyHash is the hex SHA-256 of guid + "\x00" + link.
type Article struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FeedID      uint       `gorm:"not null;uniqueIndex:idx_articles_feed_key,priority:1" json:"feed_id"`
	KeyHash     string     `gorm:"size:64;not null;uniqueIndex:idx_articles_feed_key,priority:2" json:"-"`
	GUID        string     `gorm:"column:guid;type:text" json:"guid"`
	Title       string     `gorm:"type:text" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Link        string     `gorm:"type:text" json:"link"`
	Date        *time.Time `json:"date"`
	PubDate     *time.Time `gorm:"column:pubdate" json:"pubdate"`
	Author      string     `json:"author"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Account is a reader. Ingestion never writes accounts.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:191;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`

	Feeds    []Feed    `gorm:"many2many:account_feeds" json:"-"`
	Articles []Article `gorm:"many2many:account_articles" json:"-"`
}

// AccountFeed is the subscription join row.
type AccountFeed struct {
	AccountID uint      `gorm:"primaryKey" json:"account_id"`
	FeedID    uint      `gorm:"primaryKey" json:"feed_id"`
	SubDate   time.Time `gorm:"column:subdate" json:"subdate"`
}

// AccountArticle is the per-reader state of an article.
type AccountArticle struct {
	AccountID uint       `gorm:"primaryKey" json:"account_id"`
	ArticleID uint       `gorm:"primaryKey" json:"article_id"`
	Read      bool       `json:"read"`
	Starred   bool       `json:"starred"`
	ReadDate  *time.Time `gorm:"column:readdate" json:"readdate"`
}

// MaxXMLURLLength bounds Feed.XMLURL; longer self links are rejected before any write.
const MaxXMLURLLength = 768

// Index names the schema check looks for.
const (
	FeedXMLURLIndex = "idx_feeds_xmlurl"
	ArticleKeyIndex = "idx_articles_feed_key"
)
