package feeds

import (
	"feedsync/core/fetcher"
	"feedsync/core/logger"
	"feedsync/core/reconcile"
	"feedsync/core/server"
	"feedsync/core/utils"
	"feedsync/feature/feeds/models"
	"feedsync/feature/feeds/sync"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for feeds.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Referenced by swagger annotations.
	var _ = models.Article{}
	var _ = fetcher.FeedDocument{}
	var _ = sync.RefreshResult{}
	return &Handler{service: service}
}

// RegisterRequest is the body of POST /feeds.
type RegisterRequest struct {
	URL string `json:"url"`
}

// RegisterRoutes registers the feed routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/feed/preview", h.HandlePreview)

	group := app.Group("/feeds")
	group.Post("/", h.HandleRegister)
	group.Get("/:id", h.HandleGetFeed)
	group.Post("/:id/refresh", h.HandleRefresh)
	group.Get("/:id/articles/:articleId", h.HandleGetArticle)
}

// HandleRegister registers a feed by URL.
// @Summary Register Feed
// @Description Fetches the document at url, stores the feed and its new articles.
// @Tags feeds
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Feed URL"
// @Success 201 {object} sync.RegisterResult "Created feed id and new articles"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Document has no self link"
// @Failure 502 {object} map[string]string "Fetch failed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /feeds [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return server.ErrorResponse(c, reconcile.Errorf(reconcile.ErrInvalidInput, "invalid body: %v", err))
	}

	res, err := h.service.Register(c.UserContext(), req.URL)
	if err != nil {
		l.Warn("Feed registration failed", zap.String("url", req.URL), zap.Error(err))
		return server.ErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleRefresh re-fetches a stored feed.
// @Summary Refresh Feed
// @Description Re-fetches the feed, stores new articles and returns the feed with all its articles.
// @Tags feeds
// @Produce json
// @Param id path int true "Feed ID"
// @Success 200 {object} sync.RefreshResult "Feed and articles, newest first"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Feed not found"
// @Failure 502 {object} map[string]string "Fetch failed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /feeds/{id}/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return server.ErrorResponse(c, reconcile.Wrap(reconcile.ErrInvalidInput, err))
	}

	res, err := h.service.Refresh(c.UserContext(), id)
	if err != nil {
		l.Warn("Feed refresh failed", zap.Uint("feed_id", id), zap.Error(err))
		return server.ErrorResponse(c, err)
	}

	return c.JSON(res)
}

// HandleGetFeed returns a stored feed.
// @Summary Get Feed
// @Tags feeds
// @Produce json
// @Param id path int true "Feed ID"
// @Success 200 {object} models.Feed "Feed"
// @Failure 404 {object} map[string]string "Feed not found"
// @Router /feeds/{id} [get]
func (h *Handler) HandleGetFeed(c *fiber.Ctx) error {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return server.ErrorResponse(c, reconcile.Wrap(reconcile.ErrInvalidInput, err))
	}

	feed, err := h.service.GetFeed(c.UserContext(), id)
	if err != nil {
		return server.ErrorResponse(c, err)
	}
	return c.JSON(feed)
}

// HandleGetArticle returns an article of a feed.
// @Summary Get Article
// @Tags feeds
// @Produce json
// @Param id path int true "Feed ID"
// @Param articleId path int true "Article ID"
// @Success 200 {object} models.Article "Article"
// @Failure 404 {object} map[string]string "Article not found in this feed"
// @Router /feeds/{id}/articles/{articleId} [get]
func (h *Handler) HandleGetArticle(c *fiber.Ctx) error {
	feedID, err := utils.ParseID(c.Params("id"))
	if err != nil {
		return server.ErrorResponse(c, reconcile.Wrap(reconcile.ErrInvalidInput, err))
	}
	articleID, err := utils.ParseID(c.Params("articleId"))
	if err != nil {
		return server.ErrorResponse(c, reconcile.Wrap(reconcile.ErrInvalidInput, err))
	}

	article, err := h.service.GetArticle(c.UserContext(), feedID, articleID)
	if err != nil {
		return server.ErrorResponse(c, err)
	}
	return c.JSON(article)
}

// HandlePreview fetches and parses a feed without storing it.
// @Summary Preview Feed
// @Tags feeds
// @Produce json
// @Param url query string true "Feed URL"
// @Success 200 {object} fetcher.FeedDocument "Parsed document"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "Fetch failed"
// @Router /feed/preview [get]
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	doc, err := h.service.Preview(c.UserContext(), c.Query("url"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Feed preview failed", zap.Error(err))
		return server.ErrorResponse(c, err)
	}
	return c.JSON(doc)
}
