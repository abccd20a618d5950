// Package storage writes catalog exports to a local directory, Amazon S3 (or a compatible endpoint)
// or Google Cloud Storage.
//
// [New] picks the backend named by [shared.ExportConfig.Backend]. Keys are slash-separated and
// placed under the configured prefix.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/desertthunder/discos/internal/shared"
)

// Supported export backends
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendGCS   = "gcs"
)

// Storage stores export files by key
type Storage interface {
	// Put writes the contents of r under key and returns where it was written.
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	// List returns the keys stored under the configured prefix.
	List(ctx context.Context) ([]string, error)
	// Name identifies the backend.
	Name() string
}

// New creates the [Storage] configured by cfg
func New(ctx context.Context, cfg shared.ExportConfig) (Storage, error) {
	switch cfg.Backend {
	case BackendLocal, "":
		return NewLocalStorage(cfg.Dir, cfg.Prefix)
	case BackendS3:
		return NewS3Storage(cfg)
	case BackendGCS:
		return NewGCSStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported export backend %q", shared.ErrInvalidConfig, cfg.Backend)
	}
}

// objectKey joins prefix and key with a single slash and rejects keys escaping the prefix
func objectKey(prefix, key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." {
		return "", fmt.Errorf("%w: empty storage key", shared.ErrInvalidArgument)
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key, nil
	}
	return prefix + "/" + key, nil
}

// listPrefix is the prefix used to list keys, with a trailing slash when set
func listPrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}
