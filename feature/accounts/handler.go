package accounts

import (
	"feedsync/core/logger"
	"feedsync/core/reconcile"
	"feedsync/core/server"
	"feedsync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for accounts.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the account routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/accounts")
	group.Post("/", h.HandleCreate)
	group.Post("/:id/feeds/:feedId", h.HandleSubscribe)
	group.Put("/:id/articles/:articleId", h.HandleArticleState)
}

// HandleCreate creates an account.
// @Summary Create Account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Account"
// @Success 201 {object} models.Account "Created account"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /accounts [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return server.ErrorResponse(c, reconcile.Errorf(reconcile.ErrInvalidInput, "invalid body: %v", err))
	}

	account, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Warn("Account creation failed", zap.Error(err))
		return server.ErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// HandleSubscribe subscribes an account to a feed.
// @Summary Subscribe
// @Tags accounts
// @Produce json
// @Param id path int true "Account ID"
// @Param feedId path int true "Feed ID"
// @Success 200 {object} models.AccountFeed "Subscription"
// @Failure 404 {object} map[string]string "Account or feed not found"
// @Router /accounts/{id}/feeds/{feedId} [post]
func (h *Handler) HandleSubscribe(c *fiber.Ctx) error {
	accountID, feedID, err := parseIDs(c, "id", "feedId")
	if err != nil {
		return server.ErrorResponse(c, err)
	}

	sub, err := h.service.Subscribe(c.UserContext(), accountID, feedID)
	if err != nil {
		return server.ErrorResponse(c, err)
	}
	return c.JSON(sub)
}

// HandleArticleState sets read and starred flags.
// @Summary Set Article State
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path int true "Account ID"
// @Param articleId path int true "Article ID"
// @Param request body ArticleStateRequest true "Flags to change"
// @Success 200 {object} models.AccountArticle "Article state"
// @Failure 404 {object} map[string]string "Account or article not found"
// @Router /accounts/{id}/articles/{articleId} [put]
func (h *Handler) HandleArticleState(c *fiber.Ctx) error {
	accountID, articleID, err := parseIDs(c, "id", "articleId")
	if err != nil {
		return server.ErrorResponse(c, err)
	}

	var req ArticleStateRequest
	if err := c.BodyParser(&req); err != nil {
		return server.ErrorResponse(c, reconcile.Errorf(reconcile.ErrInvalidInput, "invalid body: %v", err))
	}

	state, err := h.service.SetArticleState(c.UserContext(), accountID, articleID, req)
	if err != nil {
		return server.ErrorResponse(c, err)
	}
	return c.JSON(state)
}

func parseIDs(c *fiber.Ctx, first, second string) (uint, uint, error) {
	a, err := utils.ParseID(c.Params(first))
	if err != nil {
		return 0, 0, reconcile.Wrap(reconcile.ErrInvalidInput, err)
	}
	b, err := utils.ParseID(c.Params(second))
	if err != nil {
		return 0, 0, reconcile.Wrap(reconcile.ErrInvalidInput, err)
	}
	return a, b, nil
}
