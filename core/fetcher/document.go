package fetcher

import "time"

// FeedDocument is the parsed form of one remote feed document.
// It is transient input to reconciliation and is never persisted as-is.
type FeedDocument struct {
	Meta  *FeedMeta     `json:"meta"`
	Items []ArticleItem `json:"items"`
}

// FeedMeta is the channel-level metadata of a document.
type FeedMeta struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	XMLURL      string     `json:"xmlurl"`
	Date        *time.Time `json:"date,omitempty"`
	PubDate     *time.Time `json:"pubdate,omitempty"`
	Author      string     `json:"author"`
	Language    string     `json:"language"`
	Favicon     string     `json:"favicon"`
	Copyright   string     `json:"copyright"`
}

// ArticleItem is one entry of a document.
// A missing guid is represented by the empty string.
type ArticleItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Date        *time.Time `json:"date,omitempty"`
	PubDate     *time.Time `json:"pubdate,omitempty"`
	Author      string     `json:"author"`
	GUID        string     `json:"guid"`
}
