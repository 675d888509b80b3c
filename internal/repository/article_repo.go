package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/noticiero/cms/internal/database"
	"github.com/noticiero/cms/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article and fills in its generated ID
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO articles (title, category, content, author, image_filename, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		article.Title, article.Category, article.Content, article.Author,
		nullableString(article.ImageFilename), article.CreatedAt,
	).Scan(&article.ID)
}

// GetByID retrieves an article by ID, returning nil when absent
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `
		SELECT id, title, category, content, author, image_filename, created_at
		FROM articles WHERE id = $1
	`

	var article models.Article
	var image sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&article.ID, &article.Title, &article.Category, &article.Content,
		&article.Author, &image, &article.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if image.Valid {
		article.ImageFilename = &image.String
	}
	return &article, nil
}

// List retrieves all articles, newest first
func (r *articleRepo) List(ctx context.Context) ([]*models.Article, error) {
	query := `
		SELECT id, title, category, content, author, image_filename, created_at
		FROM articles ORDER BY created_at DESC
	`
	return r.queryArticles(ctx, query)
}

// ListByCategory retrieves articles in one category, newest first.
// A limit <= 0 means no limit.
func (r *articleRepo) ListByCategory(ctx context.Context, category string, limit int) ([]*models.Article, error) {
	query := `
		SELECT id, title, category, content, author, image_filename, created_at
		FROM articles WHERE category = $1 ORDER BY created_at DESC
	`
	if limit > 0 {
		query += ` LIMIT $2`
		return r.queryArticles(ctx, query, category, limit)
	}
	return r.queryArticles(ctx, query, category)
}

// Update persists all mutable fields of an article in one statement
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles
		SET title = $1, category = $2, content = $3, author = $4, image_filename = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		article.Title, article.Category, article.Content, article.Author,
		nullableString(article.ImageFilename), article.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes an article row
func (r *articleRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}

func (r *articleRepo) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		var article models.Article
		var image sql.NullString

		err := rows.Scan(
			&article.ID, &article.Title, &article.Category, &article.Content,
			&article.Author, &image, &article.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if image.Valid {
			article.ImageFilename = &image.String
		}
		articles = append(articles, &article)
	}
	return articles, rows.Err()
}

// nullableString converts an optional string to its SQL representation
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// requireRow converts a zero-row write into sql.ErrNoRows so callers can
// distinguish a missing target from success
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
