package s3

import (
    "context"
    "fmt"
    "io"
    "time"

    "github.com/aws/aws-sdk-go-v2/aws"
    awsconfig "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/credentials"
    "github.com/aws/aws-sdk-go-v2/service/s3"

    "github.com/xprabhudayal/genai/config"
    "github.com/xprabhudayal/genai/pkg/logger"
)

type S3Storage struct {
    client     *s3.Client
    bucketName string
    logger     logger.Logger
}

// Store uploads reader as a JSON object under key.
func (s *S3Storage) Store(ctx context.Context, reader io.Reader, key string) (string, error) {
    _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
        Bucket:      aws.String(s.bucketName),
        Key:         aws.String(key),
        Body:        reader,
        ContentType: aws.String("application/json"),
    })
    if err != nil {
        s.logger.Error("Failed to store object in S3",
            logger.String("bucket", s.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return "", fmt.Errorf("failed to store object: %w", err)
    }
    return key, nil
}

func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
    result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
        Bucket: aws.String(s.bucketName),
        Key:    aws.String(key),
    })
    if err != nil {
        s.logger.Error("Failed to get object from S3",
            logger.String("bucket", s.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return nil, fmt.Errorf("failed to get object: %w", err)
    }
    return result.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
    _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
        Bucket: aws.String(s.bucketName),
        Key:    aws.String(key),
    })
    if err != nil {
        s.logger.Error("Failed to delete object from S3",
            logger.String("bucket", s.bucketName),
            logger.String("key", key),
            logger.Error(err),
        )
        return fmt.Errorf("failed to delete object: %w", err)
    }
    return nil
}

// CleanupBefore walks every page under prefix. Objects that fail to delete
// are logged and skipped.
func (s *S3Storage) CleanupBefore(ctx context.Context, prefix string, threshold time.Time) (int, error) {
    paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
        Bucket: aws.String(s.bucketName),
        Prefix: aws.String(prefix),
    })

    removed := 0
    for paginator.HasMorePages() {
        page, err := paginator.NextPage(ctx)
        if err != nil {
            s.logger.Error("Failed to list objects",
                logger.String("bucket", s.bucketName),
                logger.Error(err),
            )
            return removed, fmt.Errorf("failed to list objects: %w", err)
        }

        for _, obj := range page.Contents {
            if obj.LastModified == nil || !obj.LastModified.Before(threshold) {
                continue
            }
            key := aws.ToString(obj.Key)
            if err := s.Delete(ctx, key); err != nil {
                continue
            }
            removed++
            s.logger.Info("Deleted expired object",
                logger.String("key", key),
                logger.Time("lastModified", *obj.LastModified),
            )
        }
    }
    return removed, nil
}

// NewS3Storage builds a client from static credentials and checks that the
// bucket is reachable.
func NewS3Storage(ctx context.Context, cfg *config.S3Config, log logger.Logger) (*S3Storage, error) {
    log.Info("S3 archive configuration",
        logger.String("bucket", cfg.BucketName),
        logger.String("region", cfg.Region),
        logger.String("endpoint", cfg.Endpoint),
    )

    opts := []func(*awsconfig.LoadOptions) error{
        awsconfig.WithRegion(cfg.Region),
    }
    if cfg.AccessKey != "" {
        opts = append(opts, awsconfig.WithCredentialsProvider(
            credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
        ))
    }
    awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
    if err != nil {
        return nil, fmt.Errorf("failed to load AWS config: %w", err)
    }

    client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
        if cfg.Endpoint != "" {
            o.BaseEndpoint = aws.String(cfg.Endpoint)
            o.UsePathStyle = true
        }
    })

    if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfg.BucketName)}); err != nil {
        return nil, fmt.Errorf("failed to verify bucket existence: %w", err)
    }

    return &S3Storage{
        client:     client,
        bucketName: cfg.BucketName,
        logger:     log.Named("s3"),
    }, nil
}
