package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/staco-app/directory-service/internal/platform/logger"
)

// PhotoStorage stores listing photos in a MinIO/S3 bucket. The
// reference handed back to callers is the object key, not a URL;
// presentation layers expand it with ObjectURL.
type PhotoStorage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewPhotoStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *logger.Logger) (*PhotoStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client for %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucket)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: %w", bucket, err)
		}
	}
	log.Info("photo storage ready", "endpoint", endpoint, "bucket", bucket)

	return &PhotoStorage{
		client: client,
		bucket: bucket,
		logger: log,
	}, nil
}

func (s *PhotoStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	ext := filepath.Ext(fileName)
	key := fmt.Sprintf("photos/%s%s", uuid.NewString(), ext)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("photo upload failed", "bucket", s.bucket, "key", key, "error", err.Error())
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Info("photo uploaded", "bucket", s.bucket, "key", key, "size_bytes", len(data))
	return key, nil
}

func (s *PhotoStorage) Delete(ctx context.Context, ref string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", ref, err)
	}
	return nil
}

func (s *PhotoStorage) ObjectURL(ref string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, ref)
}
