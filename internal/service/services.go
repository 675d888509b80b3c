package service

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/config"
	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/repository"
	"github.com/noticiero/cms/internal/validation"
)

// Upload carries an uploaded file decoupled from the HTTP transport
type Upload struct {
	File     io.Reader
	Filename string
}

// AuthService defines the interface for authentication and bootstrap
type AuthService interface {
	Authenticate(ctx context.Context, input validation.LoginInput) (*models.User, error)
	Bootstrap(ctx context.Context) error
}

// ArticleService defines the interface for the article lifecycle and the
// public read surface
type ArticleService interface {
	Create(ctx context.Context, input validation.ArticleInput, image *Upload) (*models.Article, error)
	Update(ctx context.Context, id int64, input validation.ArticleInput, image *Upload, deleteImage bool) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context) ([]*models.Article, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]*models.Article, error)
	Count(ctx context.Context) (int, error)
}

// MessageService defines the interface for contact message moderation
type MessageService interface {
	Submit(ctx context.Context, input validation.ContactInput) (*models.ContactMessage, error)
	List(ctx context.Context) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// UserService defines the interface for administrator account management
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, input validation.UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, input validation.UserInput) (*models.User, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// Services holds all service interfaces
type Services struct {
	Auth    AuthService
	Article ArticleService
	Message MessageService
	User    UserService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, store *assets.Manager, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:    newAuthService(repos.User, cfg, log),
		Article: newArticleService(repos.Article, store, log),
		Message: newMessageService(repos.Message, log),
		User:    newUserService(repos.User, log),
	}
}
