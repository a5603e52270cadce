package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the public interface for the attachment storage service.
// The Upload side is used by the message router; the presigned download side by
// the REST layer.
type StorageService interface {
	// Upload stores the attachment bytes under the given server-generated key.
	Upload(ctx context.Context, key string, contentType string, data []byte) error

	// PresignDownload generates a pre-signed URL for downloading a stored object.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Delete removes the object specified by the given key.
	Delete(ctx context.Context, key string) error
}

// NewStorageService is the factory function for StorageService.
// It initializes and returns a concrete implementation based on the provided configuration.
func NewStorageService(cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(cfg)
}
