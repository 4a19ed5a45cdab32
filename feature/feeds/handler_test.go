package feeds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"feedsync/core/database"
	"feedsync/core/fetcher"
	"feedsync/feature/feeds/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func rssFixture(selfLink string, items int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom"><channel><title>Example</title><link>http://ex.com/</link><description>d</description>`)
	if selfLink != "" {
		fmt.Fprintf(&b, `<atom:link href=%q rel="self"/>`, selfLink)
	}
	for i := 1; i <= items; i++ {
		fmt.Fprintf(&b, `<item><title>Item %d</title><link>http://ex.com/%d</link><guid>guid-%d</guid></item>`, i, i, i)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func feedServer(t *testing.T, withSelfLink bool, items int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		self := ""
		if withSelfLink {
			self = srv.URL + "/rss"
		}
		_, _ = w.Write([]byte(rssFixture(self, items)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	f := fetcher.New(fetcher.Config{TimeoutSeconds: 5}, zap.NewNop())
	feature := NewFeature(db, f, nil, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app, db
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func register(t *testing.T, app *fiber.App, url string) uint {
	t.Helper()
	resp, err := app.Test(postJSON("/feeds", fmt.Sprintf(`{"url":%q}`, url)))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return uint(decode(t, resp)["feed_id"].(float64))
}

func TestHandleRegister(t *testing.T) {
	app, db := setupTestApp(t)
	srv := feedServer(t, true, 3)

	resp, err := app.Test(postJSON("/feeds", fmt.Sprintf(`{"url":%q}`, srv.URL+"/rss")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decode(t, resp)
	assert.NotZero(t, body["feed_id"])
	assert.Len(t, body["articles"], 3)

	var n int64
	db.Model(&models.Article{}).Count(&n)
	assert.Equal(t, int64(3), n)
}

func TestHandleRegister_Errors(t *testing.T) {
	app, _ := setupTestApp(t)
	noSelf := feedServer(t, false, 1)
	gone := httptest.NewServer(http.NotFoundHandler())
	defer gone.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"Invalid JSON", `{"url":`, fiber.StatusBadRequest},
		{"Empty URL", `{"url":""}`, fiber.StatusBadRequest},
		{"No self link", fmt.Sprintf(`{"url":%q}`, noSelf.URL), fiber.StatusUnprocessableEntity},
		{"Upstream 404", fmt.Sprintf(`{"url":%q}`, gone.URL), fiber.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(postJSON("/feeds", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, decode(t, resp)["error"])
		})
	}
}

func TestHandleRefresh(t *testing.T) {
	app, _ := setupTestApp(t)
	srv := feedServer(t, true, 2)
	id := register(t, app, srv.URL+"/rss")

	resp, err := app.Test(httptest.NewRequest("POST", fmt.Sprintf("/feeds/%d/refresh", id), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	feed := body["feed"].(map[string]any)
	assert.Equal(t, float64(id), feed["id"])
	assert.Equal(t, "Example", feed["title"])
	assert.Len(t, body["articles"], 2)
}

func TestHandleRefresh_Errors(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/feeds/999/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/feeds/abc/refresh", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetFeedAndArticle(t *testing.T) {
	app, db := setupTestApp(t)
	srv := feedServer(t, true, 1)
	id := register(t, app, srv.URL+"/rss")
	other := register(t, app, feedServer(t, true, 1).URL+"/rss")

	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/feeds/%d", id), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, srv.URL+"/rss", decode(t, resp)["xmlurl"])

	resp, err = app.Test(httptest.NewRequest("GET", "/feeds/999", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var article models.Article
	require.NoError(t, db.Where("feed_id = ?", id).First(&article).Error)

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/feeds/%d/articles/%d", id, article.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "guid-1", decode(t, resp)["guid"])

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/feeds/%d/articles/%d", other, article.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandlePreview(t *testing.T) {
	app, db := setupTestApp(t)
	srv := feedServer(t, false, 2)

	resp, err := app.Test(httptest.NewRequest("GET", "/feed/preview?url="+srv.URL, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Example", body["meta"].(map[string]any)["title"])
	assert.Len(t, body["items"], 2)

	var n int64
	db.Model(&models.Feed{}).Count(&n)
	assert.Zero(t, n)

	resp, err = app.Test(httptest.NewRequest("GET", "/feed/preview", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(nil, fetcher.New(fetcher.Config{}, zap.NewNop()), nil, zap.NewNop())

	assert.Equal(t, "feeds", feature.Name())
	assert.False(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
