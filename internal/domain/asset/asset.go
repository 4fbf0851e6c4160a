package asset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/webgarden/platform/internal/domain/shared"
)

// AllowedExtensions lists the upload extensions accepted by the platform
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// Asset represents metadata for an uploaded file
type Asset struct {
	shared.BaseEntity
	Filename         string // stored name, UUID-derived
	OriginalFilename string // name as supplied by the uploader
	Path             string // path relative to the upload root
	Size             int64
	MimeType         string
	UploadedBy       uuid.UUID
}

// NewAsset creates metadata for a stored upload
func NewAsset(filename, originalFilename, path string, size int64, mimeType string, uploadedBy uuid.UUID) (*Asset, error) {
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename cannot be empty")
	}
	if path == "" {
		return nil, shared.NewDomainError("INVALID_PATH", "Path cannot be empty")
	}
	if size < 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size cannot be negative")
	}
	if uploadedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_UPLOADER", "Uploader ID cannot be empty")
	}

	return &Asset{
		BaseEntity:       shared.NewBaseEntity(),
		Filename:         filename,
		OriginalFilename: originalFilename,
		Path:             path,
		Size:             size,
		MimeType:         mimeType,
		UploadedBy:       uploadedBy,
	}, nil
}

// ValidateExtension rejects filenames whose extension is not on the allow-list
func ValidateExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return shared.NewDomainError("UNSUPPORTED_EXTENSION", "File has no extension")
	}
	if !AllowedExtensions[ext] {
		return shared.NewDomainError("UNSUPPORTED_EXTENSION",
			fmt.Sprintf("File extension %s is not allowed", ext))
	}
	return nil
}

// StoredName derives a UUID-based stored filename preserving the extension
func StoredName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := strings.ReplaceAll(uuid.New().String(), "-", "")
	return name + ext
}
