package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/webgarden/platform/internal/domain/asset"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAssetRepository implements AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// Create creates a new asset record
func (r *GormAssetRepository) Create(ctx context.Context, a *asset.Asset) error {
	model := models.AssetModelFromDomain(a)
	return r.db.WithContext(ctx).Create(model).Error
}

// Delete deletes an asset record by ID
func (r *GormAssetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AssetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds an asset by ID
func (r *GormAssetRepository) FindByID(ctx context.Context, id uuid.UUID) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByFilename finds an asset by its stored filename
func (r *GormAssetRepository) FindByFilename(ctx context.Context, filename string) (*asset.Asset, error) {
	var model models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("filename = ?", filename).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns assets with pagination, newest first
func (r *GormAssetRepository) FindAll(ctx context.Context, page, pageSize int) ([]*asset.Asset, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var assetModels []*models.AssetModel
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.AssetModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&assetModels).Error; err != nil {
		return nil, 0, err
	}

	assets := make([]*asset.Asset, len(assetModels))
	for i, m := range assetModels {
		assets[i] = m.ToDomain()
	}
	return assets, total, nil
}

// FindByUploader returns assets uploaded by a specific account
func (r *GormAssetRepository) FindByUploader(ctx context.Context, uploadedBy uuid.UUID) ([]*asset.Asset, error) {
	var assetModels []*models.AssetModel
	if err := r.db.WithContext(ctx).
		Where("uploaded_by = ?", uploadedBy).
		Order("created_at desc").
		Find(&assetModels).Error; err != nil {
		return nil, err
	}

	assets := make([]*asset.Asset, len(assetModels))
	for i, m := range assetModels {
		assets[i] = m.ToDomain()
	}
	return assets, nil
}

// Count returns the total number of assets
func (r *GormAssetRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AssetModel{}).Count(&count).Error
	return count, err
}
