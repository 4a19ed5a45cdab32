package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"feedsync/core/reconcile"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Archiver keeps a copy of raw documents. Implemented by storage.Archive.
type Archiver interface {
	Put(ctx context.Context, feedURL string, body []byte, contentType string) (string, error)
}

// Fetcher retrieves remote feed documents and parses them into FeedDocuments.
// It has no knowledge of persistence.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	logger  *zap.Logger
	limiter *hostLimiter
	archive Archiver
	group   singleflight.Group
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithArchive stores every successfully parsed document through a.
func WithArchive(a Archiver) Option {
	return func(f *Fetcher) { f.archive = a }
}

// New creates a Fetcher from the configuration.
func New(cfg Config, logger *zap.Logger, opts ...Option) *Fetcher {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	f := &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		logger: logger,
	}
	if cfg.HostIntervalMs > 0 {
		f.limiter = newHostLimiter(time.Duration(cfg.HostIntervalMs) * time.Millisecond)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves rawURL and parses it. Concurrent calls for the same URL share one request.
// The shared request is bounded by the client timeout, not by any one caller's ctx;
// a caller whose ctx ends stops waiting without failing the others.
// Every failure is reported as reconcile.ErrFetchFailed; no partial document is returned.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FeedDocument, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrFetchFailed, err)
	}

	shared := context.WithoutCancel(ctx)
	ch := f.group.DoChan(target.String(), func() (any, error) {
		return f.fetch(shared, target)
	})

	select {
	case <-ctx.Done():
		return nil, reconcile.Wrap(reconcile.ErrFetchFailed, fmt.Errorf("fetch %s: %w", target, ctx.Err()))
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			f.logger.Debug("Fetch shared with concurrent caller", zap.String("url", target.String()))
		}
		return res.Val.(*FeedDocument), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, target *url.URL) (*FeedDocument, error) {
	rawURL := target.String()

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, target.Host); err != nil {
			return nil, reconcile.Wrap(reconcile.ErrFetchFailed, fmt.Errorf("rate limiting %s: %w", target.Host, err))
		}
	}

	body, contentType, err := f.download(ctx, rawURL)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrFetchFailed, err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrFetchFailed, fmt.Errorf("parse %s: %w", rawURL, err))
	}

	doc := toDocument(parsed, f.cfg.MaxItems)

	f.logger.Debug("Feed fetched",
		zap.String("url", rawURL),
		zap.Int("items_total", len(parsed.Items)),
		zap.Int("items_kept", len(doc.Items)),
	)

	if f.archive != nil {
		key, err := f.archive.Put(ctx, rawURL, body, contentType)
		if err != nil {
			f.logger.Warn("Failed to archive feed document", zap.String("url", rawURL), zap.Error(err))
		} else {
			f.logger.Debug("Feed document archived", zap.String("url", rawURL), zap.String("key", key))
		}
	}

	return doc, nil
}

// download performs the GET and returns the body and its content type.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("request %s: unexpected status %s", rawURL, resp.Status)
	}

	reader := io.Reader(resp.Body)
	if f.cfg.MaxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, f.cfg.MaxBodyBytes+1)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", rawURL, err)
	}
	if f.cfg.MaxBodyBytes > 0 && int64(len(body)) > f.cfg.MaxBodyBytes {
		return nil, "", fmt.Errorf("document %s exceeds %d bytes", rawURL, f.cfg.MaxBodyBytes)
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func validateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host in URL %q", rawURL)
	}
	return u, nil
}

// toDocument normalises a parsed feed and keeps the first maxItems items in document order.
func toDocument(feed *gofeed.Feed, maxItems int) *FeedDocument {
	meta := &FeedMeta{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		XMLURL:      feed.FeedLink,
		Date:        feed.UpdatedParsed,
		PubDate:     feed.PublishedParsed,
		Author:      personName(feed.Authors),
		Language:    feed.Language,
		Copyright:   feed.Copyright,
	}
	if feed.Image != nil {
		meta.Favicon = feed.Image.URL
	}

	n := len(feed.Items)
	if n > maxItems {
		n = maxItems
	}

	items := make([]ArticleItem, 0, n)
	for _, it := range feed.Items[:n] {
		description := it.Content
		if description == "" {
			description = it.Description
		}
		items = append(items, ArticleItem{
			Title:       it.Title,
			Description: description,
			Link:        it.Link,
			Date:        it.UpdatedParsed,
			PubDate:     it.PublishedParsed,
			Author:      personName(it.Authors),
			GUID:        it.GUID,
		})
	}

	return &FeedDocument{Meta: meta, Items: items}
}

func personName(people []*gofeed.Person) string {
	for _, p := range people {
		if p == nil {
			continue
		}
		if p.Name != "" {
			return p.Name
		}
		if p.Email != "" {
			return p.Email
		}
	}
	return ""
}
