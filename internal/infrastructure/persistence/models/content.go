package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/webgarden/platform/internal/domain/content"
)

// ArticleModel is the persistence model for the Article domain entity.
type ArticleModel struct {
	BaseModel
	Title       string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Content     string    `gorm:"type:text"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Visible     bool      `gorm:"not null;default:false"`
	PublishedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ArticleModel) TableName() string {
	return "articles"
}

// ToDomain converts the persistence model to a domain Article entity.
func (m *ArticleModel) ToDomain() *content.Article {
	return &content.Article{
		BaseEntity:  m.BaseModel.ToDomain(),
		Title:       m.Title,
		Slug:        m.Slug,
		Content:     m.Content,
		AuthorID:    m.AuthorID,
		Visible:     m.Visible,
		PublishedAt: m.PublishedAt,
	}
}

// FromDomain populates the persistence model from a domain Article entity.
func (m *ArticleModel) FromDomain(a *content.Article) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Title = a.Title
	m.Slug = a.Slug
	m.Content = a.Content
	m.AuthorID = a.AuthorID
	m.Visible = a.Visible
	m.PublishedAt = a.PublishedAt
}

// ArticleModelFromDomain creates a new persistence model from a domain Article entity.
func ArticleModelFromDomain(a *content.Article) *ArticleModel {
	m := &ArticleModel{}
	m.FromDomain(a)
	return m
}
