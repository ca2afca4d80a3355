// Package storage holds the object storage bucket that collection exports
// are written to.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Supraja1508/Backend/internal/config"
)

// Bucket is one MinIO (or S3 compatible) bucket.
type Bucket struct {
	client *minio.Client
	name   string
}

// NewBucket connects to cfg.Endpoint and creates cfg.Bucket when it does not
// exist yet.
func NewBucket(ctx context.Context, cfg config.MinIOConfig) (*Bucket, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio: endpoint and bucket are required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	b := &Bucket{client: mc, name: cfg.Bucket}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := mc.BucketExists(ctx, b.name)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket %s: %w", b.name, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, b.name, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: create bucket %s: %w", b.name, err)
		}
	}
	return b, nil
}

func (b *Bucket) Name() string { return b.name }

// Put stores data under key.
func (b *Bucket) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, b.name, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio: put %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a download URL for key that is valid for ttl. The
// browser saves the object under the last path element of key.
func (b *Bucket) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	u, err := b.client.PresignedGetObject(ctx, b.name, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("minio: presign %s: %w", key, err)
	}
	return u.String(), nil
}

// Ping reports whether the bucket is reachable.
func (b *Bucket) Ping(ctx context.Context) error {
	ok, err := b.client.BucketExists(ctx, b.name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("minio: bucket %s does not exist", b.name)
	}
	return nil
}
