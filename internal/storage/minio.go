package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"nurse-ats-go/internal/config"
	"nurse-ats-go/internal/constants"
	"nurse-ats-go/internal/logger"
)

// MinIO holds resume files and profile pictures in two buckets. Object keys
// are always "<profile-id>/<unix-ms>.<ext>" so a prefix listing per profile
// is cheap.
type MinIO struct {
	client *minio.Client
	cfg    *config.MinIOConfig
}

// NewMinIO builds the client and makes sure both buckets exist.
func NewMinIO(ctx context.Context, cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("minio config must not be nil")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	m := &MinIO{client: client, cfg: cfg}
	for _, bucket := range []string{constants.ResumesBucket, constants.ProfilePicturesBucket} {
		if err := m.ensureBucketExists(ctx, bucket, cfg.Location); err != nil {
			return nil, fmt.Errorf("failed to ensure bucket %s exists: %w", bucket, err)
		}
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Msg("minio client initialized")
	return m, nil
}

func (m *MinIO) ensureBucketExists(ctx context.Context, bucketName, location string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	logger.Info().Str("bucket", bucketName).Msg("bucket created")
	return nil
}

// Upload writes data under bucket/objectName.
func (m *MinIO) Upload(ctx context.Context, bucket, objectName string, data []byte, contentType string) error {
	info, err := m.client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, objectName, err)
	}
	logger.Ctx(ctx).Debug().
		Str("bucket", bucket).
		Str("object", objectName).
		Int64("size", info.Size).
		Msg("object uploaded")
	return nil
}

// Remove deletes one object. MinIO treats removing a missing object as a
// no-op, which matches the pipeline's replace semantics.
func (m *MinIO) Remove(ctx context.Context, bucket, objectName string) error {
	if err := m.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", bucket, objectName, err)
	}
	return nil
}

// ListPrefix returns the object names under prefix.
func (m *MinIO) ListPrefix(ctx context.Context, bucket, prefix string) ([]string, error) {
	var names []string
	for obj := range m.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s/%s: %w", bucket, prefix, obj.Err)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

// PresignedGetURL returns a time-limited download URL.
func (m *MinIO) PresignedGetURL(ctx context.Context, bucket, objectName string, ttl time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, bucket, objectName, ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s/%s: %w", bucket, objectName, err)
	}
	return u.String(), nil
}

// PublicURL builds the stable public URL of an object, preferring the
// configured public base when the store sits behind a proxy.
func (m *MinIO) PublicURL(bucket, objectName string) string {
	if m.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(m.cfg.PublicBaseURL, "/"), bucket, objectName)
	}
	scheme := "http"
	if m.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.cfg.Endpoint, bucket, objectName)
}
