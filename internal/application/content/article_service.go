// Package content implements blog article management on top of the
// content domain, sanitizing HTML on the way in and resolving slug
// collisions before persistence.
package content

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/content"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/sanitize"
)

const excerptLength = 300

// ArticleService handles article management operations
type ArticleService struct {
	articleRepo content.ArticleRepository
	sanitizer   *sanitize.Sanitizer
	logger      *zap.Logger
}

// NewArticleService creates a new article service
func NewArticleService(
	articleRepo content.ArticleRepository,
	sanitizer *sanitize.Sanitizer,
	logger *zap.Logger,
) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		sanitizer:   sanitizer,
		logger:      logger,
	}
}

// CreateArticleInput contains input for creating an article
type CreateArticleInput struct {
	Title    string
	Slug     string // optional, derived from the title when empty
	Content  string
	AuthorID uuid.UUID
	Publish  bool
}

// UpdateArticleInput contains input for updating an article
type UpdateArticleInput struct {
	ID      uuid.UUID
	Title   *string
	Slug    *string
	Content *string
}

// ArticleDTO represents article data returned to callers
type ArticleDTO struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	AuthorID    uuid.UUID  `json:"author_id"`
	Visible     bool       `json:"visible"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ArticleListResult represents a paginated article list
type ArticleListResult struct {
	Articles   []ArticleDTO `json:"articles"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

// Create creates a new article. The content is sanitized before storage
// and the slug is made unique by suffixing a counter on collision.
func (s *ArticleService) Create(ctx context.Context, input CreateArticleInput) (*ArticleDTO, error) {
	s.logger.Info("Creating article",
		zap.String("title", input.Title),
		zap.String("author_id", input.AuthorID.String()))

	article, err := content.NewArticle(input.Title, s.sanitizer.HTML(input.Content), input.AuthorID)
	if err != nil {
		return nil, err
	}

	requested := article.Slug
	explicit := input.Slug != ""
	if explicit {
		if err := article.SetSlug(input.Slug); err != nil {
			return nil, err
		}
		requested = article.Slug
	}

	unique, err := s.uniqueSlug(ctx, requested, explicit)
	if err != nil {
		return nil, err
	}
	if unique != article.Slug {
		if err := article.SetSlug(unique); err != nil {
			return nil, err
		}
	}

	if input.Publish {
		article.Publish()
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		s.logger.Error("Failed to create article", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create article")
	}

	s.logger.Info("Article created",
		zap.String("article_id", article.ID.String()),
		zap.String("slug", article.Slug))

	return s.toDTO(article), nil
}

// GetByID retrieves an article by ID
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")
		}
		s.logger.Error("Failed to find article", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find article")
	}
	return s.toDTO(article), nil
}

// GetPublishedBySlug retrieves a publicly visible article by slug.
// Unpublished articles are reported as not found.
func (s *ArticleService) GetPublishedBySlug(ctx context.Context, slug string) (*ArticleDTO, error) {
	article, err := s.articleRepo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")
		}
		s.logger.Error("Failed to find article by slug", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find article")
	}
	return s.toDTO(article), nil
}

// ListPublished returns the most recently published articles
func (s *ArticleService) ListPublished(ctx context.Context, limit int) ([]ArticleDTO, error) {
	articles, err := s.articleRepo.FindPublished(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list published articles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list articles")
	}

	dtos := make([]ArticleDTO, len(articles))
	for i, article := range articles {
		dtos[i] = *s.toDTO(article)
	}
	return dtos, nil
}

// List retrieves a paginated list of articles for the admin UI
func (s *ArticleService) List(ctx context.Context, filter content.ArticleFilter) (*ArticleListResult, error) {
	articles, total, err := s.articleRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list articles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list articles")
	}

	pageSize := filter.Limit()
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	dtos := make([]ArticleDTO, len(articles))
	for i, article := range articles {
		dtos[i] = *s.toDTO(article)
	}

	return &ArticleListResult{
		Articles:   dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update updates an article's title, slug, or content
func (s *ArticleService) Update(ctx context.Context, input UpdateArticleInput) (*ArticleDTO, error) {
	article, err := s.articleRepo.FindByID(ctx, input.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find article")
	}

	if input.Title != nil {
		if err := article.SetTitle(*input.Title); err != nil {
			return nil, err
		}
	}

	if input.Slug != nil {
		normalized := content.Slugify(*input.Slug)
		if normalized != article.Slug {
			taken, err := s.articleRepo.ExistsBySlug(ctx, normalized)
			if err != nil {
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check slug availability")
			}
			if taken {
				return nil, shared.NewDomainError("SLUG_EXISTS", "An article with this slug already exists")
			}
			if err := article.SetSlug(normalized); err != nil {
				return nil, err
			}
		}
	}

	if input.Content != nil {
		article.SetContent(s.sanitizer.HTML(*input.Content))
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		s.logger.Error("Failed to update article", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update article")
	}

	s.logger.Info("Article updated", zap.String("article_id", input.ID.String()))
	return s.toDTO(article), nil
}

// Publish makes an article publicly visible
func (s *ArticleService) Publish(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	return s.setVisibility(ctx, id, true)
}

// Unpublish hides an article. The original publish timestamp is kept.
func (s *ArticleService) Unpublish(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	return s.setVisibility(ctx, id, false)
}

func (s *ArticleService) setVisibility(ctx context.Context, id uuid.UUID, visible bool) (*ArticleDTO, error) {
	article, err := s.articleRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find article")
	}

	if visible {
		article.Publish()
	} else {
		article.Unpublish()
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		s.logger.Error("Failed to change article visibility", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update article")
	}

	s.logger.Info("Article visibility changed",
		zap.String("article_id", id.String()),
		zap.Bool("visible", visible))
	return s.toDTO(article), nil
}

// Delete removes an article
func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ARTICLE_NOT_FOUND", "Article not found")
		}
		s.logger.Error("Failed to delete article", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete article")
	}

	s.logger.Info("Article deleted", zap.String("article_id", id.String()))
	return nil
}

// Count returns the total number of articles
func (s *ArticleService) Count(ctx context.Context) (int64, error) {
	return s.articleRepo.Count(ctx)
}

// uniqueSlug resolves collisions. Auto-generated slugs get a numeric
// suffix; explicitly chosen slugs fail so the author can pick another.
func (s *ArticleService) uniqueSlug(ctx context.Context, slug string, explicit bool) (string, error) {
	taken, err := s.articleRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to check slug availability")
	}
	if !taken {
		return slug, nil
	}
	if explicit {
		return "", shared.NewDomainError("SLUG_EXISTS", "An article with this slug already exists")
	}

	for i := 2; i <= 50; i++ {
		candidate := fmt.Sprintf("%s-%d", slug, i)
		taken, err := s.articleRepo.ExistsBySlug(ctx, candidate)
		if err != nil {
			return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to check slug availability")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError("SLUG_EXISTS", "Could not find a free slug for this title")
}

func (s *ArticleService) toDTO(article *content.Article) *ArticleDTO {
	return &ArticleDTO{
		ID:          article.ID,
		Title:       article.Title,
		Slug:        article.Slug,
		Content:     article.Content,
		Excerpt:     s.sanitizer.Excerpt(article.Content, excerptLength),
		AuthorID:    article.AuthorID,
		Visible:     article.Visible,
		Published:   article.IsPublished(),
		PublishedAt: article.PublishedAt,
		CreatedAt:   article.CreatedAt,
		UpdatedAt:   article.UpdatedAt,
	}
}
