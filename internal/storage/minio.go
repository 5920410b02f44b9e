package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const photoBucket = "stall-photos"

// ObjectStore wraps the MinIO client used for stall photos.
type ObjectStore struct {
	client   *minio.Client
	endpoint string
	useSSL   bool
}

// NewObjectStore connects to MinIO and ensures the photo bucket exists.
// Bucket setup failures are logged, not fatal; uploads will surface them.
func NewObjectStore(endpoint, accessKey, secretKey string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, photoBucket)
	if err != nil {
		log.Printf("Warning: Failed to check bucket existence: %v", err)
	} else if !exists {
		if err := client.MakeBucket(ctx, photoBucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("Warning: Failed to create bucket: %v", err)
		} else {
			log.Printf("Created bucket: %s", photoBucket)
		}
	}

	return &ObjectStore{client: client, endpoint: endpoint, useSSL: useSSL}, nil
}

// PutPhoto stores a photo object and returns its public URL.
func (s *ObjectStore) PutPhoto(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, photoBucket, objectName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("uploading photo: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, photoBucket, objectName), nil
}
