// Package archive stores activity backups in S3-compatible object storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotConfigured is returned by [NewMinioArchive] when no endpoint is set.
var ErrNotConfigured = errors.New("backup endpoint is not configured")

// Archive stores opaque objects by name.
type Archive interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
}

// MinioArchive is an [Archive] backed by one bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioArchive builds a client for cfg. The endpoint may be given as
// "host:port" or as a URL, in which case its scheme overrides UseSSL.
func NewMinioArchive(cfg config.Backup) (*MinioArchive, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}

	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &MinioArchive{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Put uploads data as object name.
func (a *MinioArchive) Put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", a.bucket, name, err)
	}
	return nil
}
