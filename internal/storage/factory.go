package storage

import (
	"context"
	"fmt"
	"log/slog"

	"filevault/internal/config"
	"filevault/internal/domain/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Backend names accepted by STORAGE_BACKEND
const (
	BackendS3     = "s3"
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// New builds the object storage selected by cfg.Backend
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (services.ObjectStorage, error) {
	switch cfg.Backend {
	case BackendS3:
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store, err := NewS3Store(ctx, S3StoreConfig{
			Client:    client,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			KeyPrefix: cfg.S3KeyPrefix,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("object storage ready", "backend", BackendS3, "bucket", cfg.S3Bucket, "region", cfg.S3Region)
		return store, nil

	case BackendLocal:
		store, err := NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("object storage ready", "backend", BackendLocal, "dir", store.Root())
		return store, nil

	case BackendMemory:
		logger.Warn("object storage is in-memory, uploads are lost on restart")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 storage: bucket is required")
	}
	if cfg.S3Region == "" {
		return nil, fmt.Errorf("S3 storage: region is required")
	}

	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.S3Region),
	}

	// Static credentials when configured, default chain otherwise
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	}

	maxAttempts := cfg.S3MaxRetries
	if maxAttempts <= 0 {
		maxAttempts = retry.DefaultMaxAttempts
	}
	opts = append(opts, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxAttempts
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO / Localstack need path-style addressing
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
