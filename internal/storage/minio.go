package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/helpinghand/internal/config"
)

// MinIOStore hosts binary assets in a MinIO bucket and serves them over
// public URLs of the form http(s)://endpoint/bucket/key.
type MinIOStore struct {
	client *minio.Client
	bucket string
	scheme string
}

// NewMinIOStore connects to MinIO and ensures the bucket exists.
func NewMinIOStore(cfg config.ObjectStoreConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket, scheme: scheme}, nil
}

// Upload stores data under key and returns its public URL.
func (s *MinIOStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("upload to minio: %w", err)
	}

	url := fmt.Sprintf("%s://%s/%s/%s", s.scheme, s.client.EndpointURL().Host, s.bucket, key)
	return url, nil
}

// RemoveByPrefix deletes every object whose key starts with prefix and
// reports how many were removed. Asset keys carry no file extension once
// extracted from a URL; callers pass a prefix ending at the extension dot
// rather than an exact key.
func (s *MinIOStore) RemoveByPrefix(ctx context.Context, prefix string) (int, error) {
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	removed := 0
	for object := range objects {
		if object.Err != nil {
			return removed, fmt.Errorf("list objects: %w", object.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("remove object %s: %w", object.Key, err)
		}
		removed++
	}

	return removed, nil
}
