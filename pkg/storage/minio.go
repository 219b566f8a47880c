package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yudadh/dokumen-service/pkg/config"
)

// ObjectStorage stores document files in an S3-compatible bucket and issues
// time-limited read URLs for them.
type ObjectStorage struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewObjectStorage connects to the configured object store.
func NewObjectStorage(cfg config.StorageConfig) (*ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = 168 * time.Hour
	}

	return &ObjectStorage{client: client, bucket: cfg.Bucket, ttl: ttl}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ObjectStorage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// Put stores the given bytes under the object path.
func (s *ObjectStorage) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, objectPath, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("store object %s: %w", objectPath, err)
	}
	return nil
}

// SignedURL issues a presigned read URL together with its absolute expiry.
func (s *ObjectStorage) SignedURL(ctx context.Context, objectPath string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectPath, s.ttl, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign object %s: %w", objectPath, err)
	}
	return url.String(), expiresAt, nil
}

// Remove deletes the stored object.
func (s *ObjectStorage) Remove(ctx context.Context, objectPath string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", objectPath, err)
	}
	return nil
}

// ObjectPath builds the bucket path for a student document. Files are grouped
// in a folder named after the document type, one object per student and type.
func ObjectPath(typeName, studentID, originalFilename string) string {
	folder := sanitizeSegment(typeName)
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s/%s-%s%s", folder, studentID, folder, ext)
}

func sanitizeSegment(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
