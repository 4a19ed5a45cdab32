package accounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"feedsync/core/reconcile"
	"feedsync/feature/feeds/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateRequest is the body of POST /accounts.
type CreateRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ArticleStateRequest is the body of PUT /accounts/:id/articles/:articleId.
// Nil fields are left unchanged.
type ArticleStateRequest struct {
	Read    *bool `json:"read"`
	Starred *bool `json:"starred"`
}

// Service manages accounts and their relation state.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new account service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger, now: time.Now}
}

// Create stores a new account with a bcrypt password hash.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Account, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, reconcile.Errorf(reconcile.ErrInvalidInput, "username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, reconcile.Errorf(reconcile.ErrInvalidInput, "hash password: %v", err)
	}

	account := &models.Account{
		Username:  req.Username,
		Password:  string(hash),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	written, err := reconcile.InsertIfAbsent(ctx, s.db, account)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("insert account %s: %w", req.Username, err))
	}
	if !written {
		return nil, reconcile.Errorf(reconcile.ErrInvalidInput, "username %s is taken", req.Username)
	}

	s.logger.Info("Account created", zap.Uint("account_id", account.ID), zap.String("username", account.Username))
	return account, nil
}

// CheckPassword reports whether password matches the stored hash of username.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	account, err := reconcile.FindOne[models.Account](ctx, s.db, "username = ?", username)
	if err != nil {
		return false, reconcile.Wrap(reconcile.ErrStorage, err)
	}
	if account == nil {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) == nil, nil
}

// Subscribe links an account to a feed. The first subscription sets SubDate;
// subscribing again keeps it.
func (s *Service) Subscribe(ctx context.Context, accountID, feedID uint) (*models.AccountFeed, error) {
	if err := s.mustExist(ctx, &models.Account{}, "account", accountID); err != nil {
		return nil, err
	}
	if err := s.mustExist(ctx, &models.Feed{}, "feed", feedID); err != nil {
		return nil, err
	}

	sub := &models.AccountFeed{AccountID: accountID, FeedID: feedID, SubDate: s.now().UTC()}
	if _, err := reconcile.InsertIfAbsent(ctx, s.db, sub); err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("subscribe %d to %d: %w", accountID, feedID, err))
	}

	stored, err := reconcile.FindOne[models.AccountFeed](ctx, s.db, "account_id = ? AND feed_id = ?", accountID, feedID)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("reload subscription %d/%d: %w", accountID, feedID, err))
	}
	if stored == nil {
		return nil, reconcile.Errorf(reconcile.ErrStorage, "subscription %d/%d missing after insert", accountID, feedID)
	}
	return stored, nil
}

// SetArticleState updates the read and starred flags of an article for an
// account. ReadDate is set when read goes from false to true and cleared when
// it goes back to false.
func (s *Service) SetArticleState(ctx context.Context, accountID, articleID uint, req ArticleStateRequest) (*models.AccountArticle, error) {
	if err := s.mustExist(ctx, &models.Account{}, "account", accountID); err != nil {
		return nil, err
	}
	if err := s.mustExist(ctx, &models.Article{}, "article", articleID); err != nil {
		return nil, err
	}

	state, err := reconcile.FindOne[models.AccountArticle](ctx, s.db, "account_id = ? AND article_id = ?", accountID, articleID)
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, err)
	}
	isNew := state == nil
	if isNew {
		state = &models.AccountArticle{AccountID: accountID, ArticleID: articleID}
	}

	if req.Read != nil {
		if *req.Read && !state.Read {
			now := s.now().UTC()
			state.ReadDate = &now
		}
		if !*req.Read {
			state.ReadDate = nil
		}
		state.Read = *req.Read
	}
	if req.Starred != nil {
		state.Starred = *req.Starred
	}

	if isNew {
		err = s.db.WithContext(ctx).Create(state).Error
	} else {
		err = s.db.WithContext(ctx).
			Model(&models.AccountArticle{}).
			Where("account_id = ? AND article_id = ?", accountID, articleID).
			Updates(map[string]any{"read": state.Read, "starred": state.Starred, "readdate": state.ReadDate}).Error
	}
	if err != nil {
		return nil, reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("save article state %d/%d: %w", accountID, articleID, err))
	}
	return state, nil
}

func (s *Service) mustExist(ctx context.Context, model any, what string, id uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return reconcile.Wrap(reconcile.ErrStorage, fmt.Errorf("lookup %s %d: %w", what, id, err))
	}
	if n == 0 {
		return reconcile.Errorf(reconcile.ErrNotFound, "%s %d", what, id)
	}
	return nil
}
