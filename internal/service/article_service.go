package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noticiero/cms/internal/assets"
	"github.com/noticiero/cms/internal/models"
	"github.com/noticiero/cms/internal/repository"
	"github.com/noticiero/cms/internal/validation"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles repository.ArticleRepository
	store    *assets.Manager
	log      zerolog.Logger
}

// newArticleService creates a new ArticleService
func newArticleService(articles repository.ArticleRepository, store *assets.Manager, log zerolog.Logger) *articleService {
	return &articleService{
		articles: articles,
		store:    store,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// Create validates the input, stores the optional image and persists the
// article. A failed row insert removes the just-stored image again so no
// orphan is left behind.
func (s *articleService) Create(ctx context.Context, input validation.ArticleInput, image *Upload) (*models.Article, error) {
	if err := input.Validate().OrNil(); err != nil {
		return nil, err
	}

	var imageName *string
	if image != nil {
		stored, err := s.store.Store(image.File, image.Filename)
		if err != nil {
			return nil, err
		}
		imageName = &stored
	}

	article := &models.Article{
		Title:         input.Title,
		Category:      input.Category,
		Content:       input.Content,
		Author:        input.Author,
		ImageFilename: imageName,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		if imageName != nil {
			if rmErr := s.store.Remove(*imageName); rmErr != nil {
				s.log.Error().Err(rmErr).Str("file", *imageName).Msg("Failed to clean up asset after insert failure")
			}
		}
		return nil, fmt.Errorf("failed to persist article: %w", err)
	}

	s.log.Info().Int64("id", article.ID).Str("category", article.Category).Msg("Article created")
	return article, nil
}

// Update applies field and image changes to an existing article. The row
// update is a single statement, so either all field changes persist or none
// do. Image file operations are ordered so a failure prefers an orphaned
// file over a dangling reference.
func (s *articleService) Update(ctx context.Context, id int64, input validation.ArticleInput, image *Upload, deleteImage bool) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}

	if err := input.Validate().OrNil(); err != nil {
		return nil, err
	}

	var storedNew string
	switch {
	case image != nil:
		// Reject a bad extension before touching the current image
		if !assets.AllowedExtension(image.Filename) {
			return nil, assets.ErrUnsupportedFileType
		}
		if article.HasImage() {
			if err := s.store.Remove(*article.ImageFilename); err != nil {
				s.log.Error().Err(err).Str("file", *article.ImageFilename).Msg("Failed to remove replaced image")
			}
		}
		storedNew, err = s.store.Store(image.File, image.Filename)
		if err != nil {
			return nil, err
		}
		article.ImageFilename = &storedNew
	case deleteImage:
		if article.HasImage() {
			if err := s.store.Remove(*article.ImageFilename); err != nil {
				s.log.Error().Err(err).Str("file", *article.ImageFilename).Msg("Failed to remove image")
			}
		}
		article.ImageFilename = nil
	}

	article.Title = input.Title
	article.Category = input.Category
	article.Content = input.Content
	article.Author = input.Author

	if err := s.articles.Update(ctx, article); err != nil {
		if storedNew != "" {
			if rmErr := s.store.Remove(storedNew); rmErr != nil {
				s.log.Error().Err(rmErr).Str("file", storedNew).Msg("Failed to clean up asset after update failure")
			}
		}
		return nil, fmt.Errorf("failed to persist article update: %w", err)
	}

	s.log.Info().Int64("id", article.ID).Msg("Article updated")
	return article, nil
}

// Delete removes the article row and then its image file. A failed file
// removal is logged but does not undo the row delete.
func (s *articleService) Delete(ctx context.Context, id int64) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return ErrNotFound
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if article.HasImage() {
		if err := s.store.Remove(*article.ImageFilename); err != nil {
			s.log.Error().Err(err).Str("file", *article.ImageFilename).Msg("Failed to remove image of deleted article")
		}
	}

	s.log.Info().Int64("id", id).Msg("Article deleted")
	return nil
}

// Get retrieves one article or ErrNotFound
func (s *articleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// List returns all articles, newest first
func (s *articleService) List(ctx context.Context) ([]*models.Article, error) {
	return s.articles.List(ctx)
}

// ListByCategory returns articles in one category, newest first.
// A limit <= 0 means no limit.
func (s *articleService) ListByCategory(ctx context.Context, category string, limit int) ([]*models.Article, error) {
	return s.articles.ListByCategory(ctx, category, limit)
}

// Count returns the total number of articles
func (s *articleService) Count(ctx context.Context) (int, error) {
	return s.articles.Count(ctx)
}
