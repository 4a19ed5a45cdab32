package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"feedsync/core/fetcher"
	"feedsync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rssDocument(selfLink string, items int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
<title>Example</title>
<link>http://ex.com/</link>
<description>Example feed</description>
<language>en</language>
<copyright>CC-BY</copyright>
<image><url>http://ex.com/icon.png</url><title>Example</title><link>http://ex.com/</link></image>
`)
	if selfLink != "" {
		fmt.Fprintf(&b, "<atom:link href=%q rel=\"self\" type=\"application/rss+xml\"/>\n", selfLink)
	}
	for i := 1; i <= items; i++ {
		fmt.Fprintf(&b, "<item><title>Item %d</title><link>http://ex.com/%d</link><guid>guid-%d</guid><description>Body %d</description><pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate></item>\n", i, i, i, i)
	}
	b.WriteString("</channel>\n</rss>\n")
	return b.String()
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFetcher(opts ...fetcher.Option) *fetcher.Fetcher {
	return fetcher.New(fetcher.Config{MaxItems: 10, TimeoutSeconds: 5, MaxBodyBytes: 1 << 20}, zap.NewNop(), opts...)
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Put(ctx context.Context, feedURL string, body []byte, contentType string) (string, error) {
	args := m.Called(ctx, feedURL, body, contentType)
	return args.String(0), args.Error(1)
}

func TestFetch_CapsItemsInDocumentOrder(t *testing.T) {
	srv := serve(t, http.StatusOK, rssDocument("http://ex.com/rss", 25))

	doc, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, doc.Items, 10)

	for i, item := range doc.Items {
		assert.Equal(t, fmt.Sprintf("guid-%d", i+1), item.GUID)
		assert.Equal(t, fmt.Sprintf("http://ex.com/%d", i+1), item.Link)
	}
}

func TestFetch_Meta(t *testing.T) {
	srv := serve(t, http.StatusOK, rssDocument("http://ex.com/rss", 1))

	doc, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, doc.Meta)

	assert.Equal(t, "Example", doc.Meta.Title)
	assert.Equal(t, "Example feed", doc.Meta.Description)
	assert.Equal(t, "http://ex.com/", doc.Meta.Link)
	assert.Equal(t, "http://ex.com/rss", doc.Meta.XMLURL)
	assert.Equal(t, "en", doc.Meta.Language)
	assert.Equal(t, "CC-BY", doc.Meta.Copyright)
	assert.Equal(t, "http://ex.com/icon.png", doc.Meta.Favicon)

	require.Len(t, doc.Items, 1)
	assert.Equal(t, "Item 1", doc.Items[0].Title)
	assert.Equal(t, "Body 1", doc.Items[0].Description)
	require.NotNil(t, doc.Items[0].PubDate)
	assert.Equal(t, 2006, doc.Items[0].PubDate.Year())
}

func TestFetch_XMLURLNotTakenFromRequest(t *testing.T) {
	srv := serve(t, http.StatusOK, rssDocument("", 2))

	doc, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, doc.Meta.XMLURL)
	assert.Len(t, doc.Items, 2)
}

func TestFetch_ZeroItemsIsSuccess(t *testing.T) {
	srv := serve(t, http.StatusOK, rssDocument("http://ex.com/rss", 0))

	doc, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotNil(t, doc.Meta)
	assert.NotNil(t, doc.Items)
	assert.Empty(t, doc.Items)
}

func TestFetch_Atom(t *testing.T) {
	atom := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Example</title>
  <link href="http://ex.com/"/>
  <link rel="self" href="http://ex.com/atom.xml"/>
  <updated>2024-01-02T03:04:05Z</updated>
  <author><name>Jane</name></author>
  <id>urn:uuid:feed</id>
  <entry>
    <title>Entry</title>
    <link href="http://ex.com/entry"/>
    <id>urn:uuid:entry</id>
    <updated>2024-01-02T03:04:05Z</updated>
    <content type="html">&lt;p&gt;Full&lt;/p&gt;</content>
    <summary>Short</summary>
  </entry>
</feed>`
	srv := serve(t, http.StatusOK, atom)

	doc, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "http://ex.com/atom.xml", doc.Meta.XMLURL)
	assert.Equal(t, "Jane", doc.Meta.Author)
	require.NotNil(t, doc.Meta.Date)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "urn:uuid:entry", doc.Items[0].GUID)
	assert.Equal(t, "<p>Full</p>", doc.Items[0].Description)
}

func TestFetch_Failures(t *testing.T) {
	notFound := serve(t, http.StatusNotFound, "gone")
	garbage := serve(t, http.StatusOK, "this is not a feed")
	huge := serve(t, http.StatusOK, rssDocument("http://ex.com/rss", 2)+strings.Repeat(" ", 2<<20))

	tests := []struct {
		name string
		url  string
	}{
		{"Non-2xx", notFound.URL},
		{"Malformed document", garbage.URL},
		{"Body too large", huge.URL},
		{"Unsupported scheme", "ftp://ex.com/rss"},
		{"Missing host", "http:///rss"},
		{"Unreachable", "http://127.0.0.1:1/rss"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := newFetcher().Fetch(context.Background(), tt.url)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, reconcile.ErrFetchFailed), "got %v", err)
		})
	}
}

func TestFetch_Archive(t *testing.T) {
	body := rssDocument("http://ex.com/rss", 1)
	srv := serve(t, http.StatusOK, body)

	archive := new(mockArchiver)
	archive.On("Put", mock.Anything, srv.URL, []byte(body), "application/rss+xml").Return("documents/x/1.xml", nil)

	_, err := newFetcher(fetcher.WithArchive(archive)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	archive.AssertExpectations(t)
}

func TestFetch_ArchiveFailureDoesNotFailFetch(t *testing.T) {
	srv := serve(t, http.StatusOK, rssDocument("http://ex.com/rss", 1))

	archive := new(mockArchiver)
	archive.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("bucket missing"))

	doc, err := newFetcher(fetcher.WithArchive(archive)).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, doc.Items, 1)
}

func TestFetch_ArchiveSkippedOnParseFailure(t *testing.T) {
	srv := serve(t, http.StatusOK, "not xml")

	archive := new(mockArchiver)

	_, err := newFetcher(fetcher.WithArchive(archive)).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	archive.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFetch_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write([]byte(rssDocument("http://ex.com/rss", 1)))
	}))
	defer srv.Close()

	f := newFetcher()

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(firstCtx, srv.URL)
		firstErr <- err
	}()
	<-started

	type result struct {
		doc *fetcher.FeedDocument
		err error
	}
	second := make(chan result, 1)
	go func() {
		doc, err := f.Fetch(context.Background(), srv.URL)
		second <- result{doc, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	err := <-firstErr
	assert.True(t, errors.Is(err, reconcile.ErrFetchFailed))
	assert.True(t, errors.Is(err, context.Canceled))

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Len(t, res.doc.Items, 1)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetch_SendsUserAgent(t *testing.T) {
	var seen atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.UserAgent())
		_, _ = w.Write([]byte(rssDocument("http://ex.com/rss", 0)))
	}))
	defer srv.Close()

	f := fetcher.New(fetcher.Config{UserAgent: "feedsync-test"}, zap.NewNop())
	_, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "feedsync-test", seen.Load())
}
