package models

import (
	"github.com/google/uuid"
	"github.com/webgarden/platform/internal/domain/asset"
)

// AssetModel is the persistence model for the Asset domain entity.
type AssetModel struct {
	BaseModel
	Filename         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	OriginalFilename string    `gorm:"type:varchar(255)"`
	Path             string    `gorm:"type:varchar(500);not null"`
	Size             int64     `gorm:"not null;default:0"`
	MimeType         string    `gorm:"type:varchar(100)"`
	UploadedBy       uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (AssetModel) TableName() string {
	return "assets"
}

// ToDomain converts the persistence model to a domain Asset entity.
func (m *AssetModel) ToDomain() *asset.Asset {
	return &asset.Asset{
		BaseEntity:       m.BaseModel.ToDomain(),
		Filename:         m.Filename,
		OriginalFilename: m.OriginalFilename,
		Path:             m.Path,
		Size:             m.Size,
		MimeType:         m.MimeType,
		UploadedBy:       m.UploadedBy,
	}
}

// FromDomain populates the persistence model from a domain Asset entity.
func (m *AssetModel) FromDomain(a *asset.Asset) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Filename = a.Filename
	m.OriginalFilename = a.OriginalFilename
	m.Path = a.Path
	m.Size = a.Size
	m.MimeType = a.MimeType
	m.UploadedBy = a.UploadedBy
}

// AssetModelFromDomain creates a new persistence model from a domain Asset entity.
func AssetModelFromDomain(a *asset.Asset) *AssetModel {
	m := &AssetModel{}
	m.FromDomain(a)
	return m
}
