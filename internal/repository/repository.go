package repository

import (
	"context"

	"github.com/noticiero/cms/internal/database"
	"github.com/noticiero/cms/internal/models"
)

// UserRepository defines the interface for administrator account operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	Count(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context) ([]*models.Article, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// MessageRepository defines the interface for contact message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	List(ctx context.Context) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User    UserRepository
	Article ArticleRepository
	Message MessageRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepo(db),
		Article: NewArticleRepo(db),
		Message: NewMessageRepo(db),
	}
}
