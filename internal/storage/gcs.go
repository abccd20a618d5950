package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/desertthunder/discos/internal/shared"
)

// GCSStorage uploads exports to a Google Cloud Storage bucket
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStorage creates a GCSStorage from cfg. Without a credentials file it uses application default credentials.
func NewGCSStorage(ctx context.Context, cfg shared.ExportConfig, opts ...option.ClientOption) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: gcs export requires a bucket", shared.ErrInvalidConfig)
	}

	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStorage{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *GCSStorage) Name() string { return BackendGCS }

// Put uploads r and returns the gs:// URI of the object
func (s *GCSStorage) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	name, err := objectKey(s.prefix, key)
	if err != nil {
		return "", err
	}

	wc := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("failed to upload export: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", s.bucket, name), nil
}

// List returns the object names under the prefix, relative to it
func (s *GCSStorage) List(ctx context.Context) ([]string, error) {
	prefix := listPrefix(s.prefix)
	keys := []string{}

	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list exports: %w", err)
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, prefix))
	}

	return keys, nil
}

// Close releases the underlying client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
