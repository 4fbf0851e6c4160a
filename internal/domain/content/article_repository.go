package content

import (
	"context"

	"github.com/google/uuid"
)

// ArticleRepository defines the interface for article persistence
type ArticleRepository interface {
	// Create creates a new article
	Create(ctx context.Context, article *Article) error

	// Update updates an existing article
	Update(ctx context.Context, article *Article) error

	// Delete deletes an article by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an article by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)

	// FindBySlug finds an article by slug
	FindBySlug(ctx context.Context, slug string) (*Article, error)

	// FindPublishedBySlug finds a publicly visible article by slug
	FindPublishedBySlug(ctx context.Context, slug string) (*Article, error)

	// FindAll returns articles matching the filter with pagination
	FindAll(ctx context.Context, filter ArticleFilter) ([]*Article, int64, error)

	// FindPublished returns visible articles ordered by publish date descending
	FindPublished(ctx context.Context, limit int) ([]*Article, error)

	// ExistsBySlug checks if a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Count returns the total number of articles
	Count(ctx context.Context) (int64, error)
}

// ArticleFilter contains filter options for querying articles
type ArticleFilter struct {
	// Search keyword for title or content
	Keyword string

	// Filter by visibility
	Visible *bool

	// Filter by author
	AuthorID *uuid.UUID

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// NewArticleFilter creates a new ArticleFilter with default values
func NewArticleFilter() ArticleFilter {
	return ArticleFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// WithKeyword sets the search keyword
func (f ArticleFilter) WithKeyword(keyword string) ArticleFilter {
	f.Keyword = keyword
	return f
}

// WithVisible sets the visibility filter
func (f ArticleFilter) WithVisible(visible bool) ArticleFilter {
	f.Visible = &visible
	return f
}

// WithAuthorID sets the author filter
func (f ArticleFilter) WithAuthorID(authorID uuid.UUID) ArticleFilter {
	f.AuthorID = &authorID
	return f
}

// WithPagination sets pagination parameters
func (f ArticleFilter) WithPagination(page, pageSize int) ArticleFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f ArticleFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f ArticleFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
