package minio

import (
    "context"
    "fmt"
    "io"
    "time"

    "github.com/minio/minio-go/v7"
    "github.com/minio/minio-go/v7/pkg/credentials"

    "github.com/xprabhudayal/genai/config"
    "github.com/xprabhudayal/genai/pkg/logger"
)

type MinioStorage struct {
    client     *minio.Client
    bucketName string
    logger     logger.Logger
}

func (m *MinioStorage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
    _, err := m.client.PutObject(ctx, m.bucketName, key, reader, -1, minio.PutObjectOptions{
        ContentType: "application/json",
    })
    if err != nil {
        m.logger.Error("Failed to store object in MinIO",
            logger.String("bucket", m.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return "", fmt.Errorf("failed to store object: %w", err)
    }
    return key, nil
}

// Get stats the object first so a missing key fails here rather than on the
// first Read.
func (m *MinioStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
    if _, err := m.client.StatObject(ctx, m.bucketName, key, minio.StatObjectOptions{}); err != nil {
        m.logger.Error("Failed to stat object in MinIO",
            logger.String("bucket", m.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return nil, fmt.Errorf("failed to get object: %w", err)
    }

    obj, err := m.client.GetObject(ctx, m.bucketName, key, minio.GetObjectOptions{})
    if err != nil {
        return nil, fmt.Errorf("failed to get object: %w", err)
    }
    return obj, nil
}

func (m *MinioStorage) Delete(ctx context.Context, key string) error {
    if err := m.client.RemoveObject(ctx, m.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
        m.logger.Error("Failed to delete object from MinIO",
            logger.String("bucket", m.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return fmt.Errorf("failed to delete object: %w", err)
    }
    return nil
}

func (m *MinioStorage) CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error) {
    removed := 0
    for obj := range m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
        if obj.Err != nil {
            m.logger.Error("Error listing objects",
                logger.String("bucket", m.bucketName),
                logger.Error(obj.Err),
            )
            return removed, fmt.Errorf("failed to list objects: %w", obj.Err)
        }
        if !obj.LastModified.Before(threshold) {
            continue
        }
        if err := m.Delete(ctx, obj.Key); err != nil {
            continue
        }
        removed++
        m.logger.Info("Deleted expired object",
            logger.String("key", obj.Key),
            logger.Time("lastModified", obj.LastModified),
        )
    }
    return removed, nil
}

// NewMinioStorage connects and creates the bucket when it does not exist.
func NewMinioStorage(ctx context.Context, cfg *config.MinioConfig, log logger.Logger) (*MinioStorage, error) {
    client, err := minio.New(cfg.Endpoint, &minio.Options{
        Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
        Secure: cfg.UseSSL,
        Region: cfg.Region,
    })
    if err != nil {
        return nil, fmt.Errorf("failed to create MinIO client: %w", err)
    }

    exists, err := client.BucketExists(ctx, cfg.BucketName)
    if err != nil {
        return nil, fmt.Errorf("failed to check bucket existence: %w", err)
    }
    if !exists {
        if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
            return nil, fmt.Errorf("failed to create bucket: %w", err)
        }
        log.Info("Created archive bucket", logger.String("bucket", cfg.BucketName))
    }

    return &MinioStorage{
        client:     client,
        bucketName: cfg.BucketName,
        logger:     log.Named("minio"),
    }, nil
}
