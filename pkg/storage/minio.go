package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type minioStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string

	ensureMu      sync.Mutex
	bucketEnsured bool
}

type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewMinIOStorage(opts MinIOOptions) (FileStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}

	return &minioStorage{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket),
	}, nil
}

// ensureBucket creates the bucket on first use so startup does not depend on MinIO being ready.
func (s *minioStorage) ensureBucket(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.bucketEnsured {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	s.bucketEnsured = true
	return nil
}

func (s *minioStorage) Upload(ctx context.Context, r io.Reader, size int64, folder, fileName, contentType string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := path.Join(strings.Trim(folder, "/"), objectName(fileName))
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *minioStorage) Delete(ctx context.Context, fileURL string) error {
	key, err := s.objectKey(fileURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *minioStorage) objectKey(fileURL string) (string, error) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("invalid file url: %w", err)
	}

	prefix := "/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) || len(u.Path) == len(prefix) {
		return "", fmt.Errorf("url %q does not belong to bucket %s", fileURL, s.bucket)
	}
	return strings.TrimPrefix(u.Path, prefix), nil
}
