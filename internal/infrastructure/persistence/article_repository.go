package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/webgarden/platform/internal/domain/content"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormArticleRepository implements ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

// Create creates a new article
func (r *GormArticleRepository) Create(ctx context.Context, article *content.Article) error {
	model := models.ArticleModelFromDomain(article)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing article
func (r *GormArticleRepository) Update(ctx context.Context, article *content.Article) error {
	model := models.ArticleModelFromDomain(article)
	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an article by ID
func (r *GormArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ArticleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an article by ID
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds an article by slug
func (r *GormArticleRepository) FindBySlug(ctx context.Context, slug string) (*content.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindPublishedBySlug finds a publicly visible article by slug
func (r *GormArticleRepository) FindPublishedBySlug(ctx context.Context, slug string) (*content.Article, error) {
	var model models.ArticleModel
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND visible = ? AND published_at IS NOT NULL", slug, true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns articles matching the filter with pagination
func (r *GormArticleRepository) FindAll(ctx context.Context, filter content.ArticleFilter) ([]*content.Article, int64, error) {
	var articleModels []*models.ArticleModel
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ArticleModel{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}
	query = query.Order(sortBy + " " + sortOrder)
	query = query.Offset(filter.Offset()).Limit(filter.Limit())

	if err := query.Find(&articleModels).Error; err != nil {
		return nil, 0, err
	}

	articles := make([]*content.Article, len(articleModels))
	for i, m := range articleModels {
		articles[i] = m.ToDomain()
	}
	return articles, total, nil
}

// FindPublished returns visible articles ordered by publish date descending
func (r *GormArticleRepository) FindPublished(ctx context.Context, limit int) ([]*content.Article, error) {
	if limit <= 0 {
		limit = 20
	}
	var articleModels []*models.ArticleModel
	if err := r.db.WithContext(ctx).
		Where("visible = ? AND published_at IS NOT NULL", true).
		Order("published_at desc").
		Limit(limit).
		Find(&articleModels).Error; err != nil {
		return nil, err
	}

	articles := make([]*content.Article, len(articleModels))
	for i, m := range articleModels {
		articles[i] = m.ToDomain()
	}
	return articles, nil
}

// ExistsBySlug checks if a slug is already taken
func (r *GormArticleRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ArticleModel{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Count returns the total number of articles
func (r *GormArticleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ArticleModel{}).Count(&count).Error
	return count, err
}

func (r *GormArticleRepository) applyFilter(query *gorm.DB, filter content.ArticleFilter) *gorm.DB {
	if filter.Keyword != "" {
		keyword := "%" + strings.ToLower(filter.Keyword) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", keyword, keyword)
	}
	if filter.Visible != nil {
		query = query.Where("visible = ?", *filter.Visible)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	return query
}
