// Package asset implements upload handling: extension and size checks
// run before any bytes are stored, images are re-encoded and
// thumbnailed, and a metadata record tracks each stored file.
package asset

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webgarden/platform/internal/domain/asset"
	"github.com/webgarden/platform/internal/domain/shared"
	"github.com/webgarden/platform/internal/infrastructure/images"
	"github.com/webgarden/platform/internal/infrastructure/storage"
)

// AssetService handles file uploads and their metadata
type AssetService struct {
	assetRepo asset.AssetRepository
	processor *images.Processor
	store     storage.Store
	logger    *zap.Logger
}

// NewAssetService creates a new asset service
func NewAssetService(
	assetRepo asset.AssetRepository,
	processor *images.Processor,
	store storage.Store,
	logger *zap.Logger,
) *AssetService {
	return &AssetService{
		assetRepo: assetRepo,
		processor: processor,
		store:     store,
		logger:    logger,
	}
}

// UploadInput contains an uploaded file
type UploadInput struct {
	Filename   string // name as submitted by the browser
	Size       int64
	Reader     io.Reader
	UploadedBy uuid.UUID
}

// AssetDTO represents asset data returned to callers
type AssetDTO struct {
	ID               uuid.UUID `json:"id"`
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	URL              string    `json:"url"`
	ThumbnailURL     string    `json:"thumbnail_url,omitempty"`
	Size             int64     `json:"size"`
	MimeType         string    `json:"mime_type"`
	UploadedBy       uuid.UUID `json:"uploaded_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// AssetListResult represents a paginated asset list
type AssetListResult struct {
	Assets     []AssetDTO `json:"assets"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// Upload validates, processes, and stores an uploaded image.
// Validation happens before the store is touched; a disallowed
// extension never reaches disk or bucket.
func (s *AssetService) Upload(ctx context.Context, input UploadInput) (*AssetDTO, error) {
	if err := s.processor.Validate(input.Filename, input.Size); err != nil {
		return nil, err
	}

	processed, err := s.processor.Process(input.Reader, input.Filename, true)
	if err != nil {
		return nil, err
	}

	stored := asset.StoredName(input.Filename)
	if ext := path.Ext(stored); ext != processed.Ext {
		// formats stored re-encoded keep the encoded extension
		stored = strings.TrimSuffix(stored, ext) + processed.Ext
	}
	key := path.Join(storage.UploadPrefix, stored)
	mimeType := mimeFromFilename(stored)

	if err := s.store.Put(ctx, key, processed.Image, mimeType); err != nil {
		s.logger.Error("Failed to store upload", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store uploaded file")
	}

	if processed.Thumb != nil {
		thumbKey := path.Join(storage.ThumbPrefix, images.ThumbName(stored))
		if err := s.store.Put(ctx, thumbKey, processed.Thumb, mimeType); err != nil {
			// thumbnail is a nicety, the upload still counts
			s.logger.Warn("Failed to store thumbnail", zap.Error(err), zap.String("key", thumbKey))
		}
	}

	record, err := asset.NewAsset(stored, input.Filename, s.store.URL(key),
		int64(len(processed.Image)), mimeType, input.UploadedBy)
	if err != nil {
		return nil, err
	}

	if err := s.assetRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to save asset record", zap.Error(err))
		// the stored object is orphaned otherwise
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.logger.Warn("Failed to remove stored file after record failure", zap.Error(derr))
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save uploaded file")
	}

	s.logger.Info("Asset uploaded",
		zap.String("asset_id", record.ID.String()),
		zap.String("filename", stored),
		zap.Int("bytes", len(processed.Image)),
		zap.Int("width", processed.Width),
		zap.Int("height", processed.Height))

	return s.toDTO(record), nil
}

// GetByID retrieves an asset by ID
func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID) (*AssetDTO, error) {
	record, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("ASSET_NOT_FOUND", "File not found")
		}
		s.logger.Error("Failed to find asset", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find file")
	}
	return s.toDTO(record), nil
}

// List retrieves a paginated list of assets, newest first
func (s *AssetService) List(ctx context.Context, page, pageSize int) (*AssetListResult, error) {
	records, total, err := s.assetRepo.FindAll(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list assets", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list files")
	}

	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	dtos := make([]AssetDTO, len(records))
	for i, record := range records {
		dtos[i] = *s.toDTO(record)
	}

	return &AssetListResult{
		Assets:     dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Delete removes the asset record and its stored files. Missing files
// are ignored so a half-cleaned asset can still be deleted.
func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.assetRepo.FindByID(ctx, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("ASSET_NOT_FOUND", "File not found")
		}
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to find file")
	}

	if err := s.assetRepo.Delete(ctx, record.ID); err != nil {
		s.logger.Error("Failed to delete asset record", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete file")
	}

	key := path.Join(storage.UploadPrefix, record.Filename)
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete stored file", zap.Error(err), zap.String("key", key))
	}
	thumbKey := path.Join(storage.ThumbPrefix, images.ThumbName(record.Filename))
	if err := s.store.Delete(ctx, thumbKey); err != nil {
		s.logger.Warn("Failed to delete thumbnail", zap.Error(err), zap.String("key", thumbKey))
	}

	s.logger.Info("Asset deleted", zap.String("asset_id", id.String()))
	return nil
}

// Count returns the total number of assets
func (s *AssetService) Count(ctx context.Context) (int64, error) {
	return s.assetRepo.Count(ctx)
}

func (s *AssetService) toDTO(record *asset.Asset) *AssetDTO {
	return &AssetDTO{
		ID:               record.ID,
		Filename:         record.Filename,
		OriginalFilename: record.OriginalFilename,
		URL:              s.store.URL(path.Join(storage.UploadPrefix, record.Filename)),
		ThumbnailURL:     s.store.URL(path.Join(storage.ThumbPrefix, images.ThumbName(record.Filename))),
		Size:             record.Size,
		MimeType:         record.MimeType,
		UploadedBy:       record.UploadedBy,
		CreatedAt:        record.CreatedAt,
	}
}

func mimeFromFilename(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
