package asset

import (
	"context"

	"github.com/google/uuid"
)

// AssetRepository defines the interface for asset persistence
type AssetRepository interface {
	// Create creates a new asset record
	Create(ctx context.Context, asset *Asset) error

	// Delete deletes an asset record by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an asset by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Asset, error)

	// FindByFilename finds an asset by its stored filename
	FindByFilename(ctx context.Context, filename string) (*Asset, error)

	// FindAll returns assets with pagination, newest first
	FindAll(ctx context.Context, page, pageSize int) ([]*Asset, int64, error)

	// FindByUploader returns assets uploaded by a specific account
	FindByUploader(ctx context.Context, uploadedBy uuid.UUID) ([]*Asset, error)

	// Count returns the total number of assets
	Count(ctx context.Context) (int64, error)
}
