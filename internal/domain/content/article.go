package content

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/webgarden/platform/internal/domain/shared"
)

// Article represents a blog post owned by one account
// It is the aggregate root for blog content
type Article struct {
	shared.BaseEntity
	Title       string
	Slug        string
	Content     string // sanitized HTML
	AuthorID    uuid.UUID
	Visible     bool
	PublishedAt *time.Time
}

// NewArticle creates a new unpublished article
func NewArticle(title, content string, authorID uuid.UUID) (*Article, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}

	return &Article{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Slug:       Slugify(title),
		Content:    content,
		AuthorID:   authorID,
		Visible:    false,
	}, nil
}

// SetTitle updates the title without touching the slug
func (a *Article) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return err
	}

	a.Title = title
	a.UpdatedAt = time.Now()

	return nil
}

// SetSlug sets an explicit slug, normalizing it first
func (a *Article) SetSlug(raw string) error {
	normalized := Slugify(raw)
	if normalized == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(normalized) > 200 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 200 characters")
	}

	a.Slug = normalized
	a.UpdatedAt = time.Now()

	return nil
}

// SetContent replaces the article body
func (a *Article) SetContent(content string) {
	a.Content = content
	a.UpdatedAt = time.Now()
}

// Publish makes the article visible
// The publish timestamp is stamped once and survives later unpublish/publish cycles
func (a *Article) Publish() {
	a.Visible = true
	if a.PublishedAt == nil {
		now := time.Now()
		a.PublishedAt = &now
	}
	a.UpdatedAt = time.Now()
}

// Unpublish hides the article without clearing the publish timestamp
func (a *Article) Unpublish() {
	a.Visible = false
	a.UpdatedAt = time.Now()
}

// IsPublished returns true if the article is publicly readable
func (a *Article) IsPublished() bool {
	return a.Visible && a.PublishedAt != nil
}

// Slugify converts arbitrary text into a URL-safe slug
func Slugify(text string) string {
	s := slug.Make(text)
	if len(s) > 200 {
		s = strings.Trim(s[:200], "-")
	}
	return s
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) < 5 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be at least 5 characters")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}
