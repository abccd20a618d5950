package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/desertthunder/discos/internal/shared"
)

// S3Storage uploads exports to an S3 bucket. A custom endpoint switches to path-style addressing
// for S3-compatible servers.
type S3Storage struct {
	uploader *s3manager.Uploader
	client   *s3.S3
	bucket   string
	prefix   string
	endpoint string
}

// NewS3Storage creates an S3Storage from cfg. Empty keys fall back to the SDK's credential chain.
func NewS3Storage(cfg shared.ExportConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 export requires a bucket", shared.ErrInvalidConfig)
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

func (s *S3Storage) Name() string { return BackendS3 }

// Put uploads r and returns the object URL
func (s *S3Storage) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	name, err := objectKey(s.prefix, key)
	if err != nil {
		return "", err
	}

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(name),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export: %w", err)
	}

	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, name), nil
	}
	return out.Location, nil
}

// List returns the object keys under the prefix, relative to it
func (s *S3Storage) List(ctx context.Context) ([]string, error) {
	prefix := listPrefix(s.prefix)
	keys := []string{}

	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, strings.TrimPrefix(aws.StringValue(obj.Key), prefix))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	return keys, nil
}
