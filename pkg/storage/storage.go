package storage

import (
    "context"
    "fmt"
    "io"
    "time"

    "github.com/xprabhudayal/genai/config"
    "github.com/xprabhudayal/genai/pkg/logger"
    "github.com/xprabhudayal/genai/pkg/storage/minio"
    "github.com/xprabhudayal/genai/pkg/storage/s3"
)

// StorageType names an archive backend.
type StorageType string

const (
    StorageTypeS3    StorageType = config.ArchiveS3
    StorageTypeMinio StorageType = config.ArchiveMinio
)

// Storage is an object store keyed by slash-separated names.
type Storage interface {
    // Store writes reader under key and returns the key actually used.
    Store(ctx context.Context, reader io.Reader, key string) (string, error)
    Get(ctx context.Context, key string) (io.ReadCloser, error)
    Delete(ctx context.Context, key string) error
    // CleanupBefore removes every object under prefix last modified before threshold.
    CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error)
}

// NewStorage connects to the backend selected by cfg.Type.
func NewStorage(ctx context.Context, cfg *config.ArchiveConfig, log logger.Logger) (Storage, error) {
    switch StorageType(cfg.Type) {
    case StorageTypeS3:
        return s3.NewS3Storage(ctx, &cfg.S3, log)
    case StorageTypeMinio:
        return minio.NewMinioStorage(ctx, &cfg.Minio, log)
    default:
        return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
    }
}
