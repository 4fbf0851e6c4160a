// Package storage provides the upload store backends for site assets.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	infraconfig "github.com/webgarden/platform/internal/infrastructure/config"
)

// Key prefixes for stored objects. The local backend serves each
// prefix from the matching subdirectory of the upload root, so the
// HTTP mounts must use the same names.
const (
	UploadPrefix = "uploads"
	ThumbPrefix  = "thumbnails"
)

// Store persists uploaded files under opaque keys.
// Keys are slash-separated relative paths, e.g. "uploads/abc123.jpg".
type Store interface {
	// Put writes the object, replacing any existing object at the key
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get reads the object
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists checks whether the key holds an object
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL path for the key
	URL(key string) string
}

// New selects the store backend from the upload configuration.
func New(cfg infraconfig.UploadConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Dir)
	case "s3":
		return NewS3Store(cfg, logger)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Backend)
	}
}
