package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"filevault/internal/domain/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the store uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store stores payloads in Amazon S3 or an S3-compatible service.
//
// Object keys are "<key prefix><folder>/<filename>" and double as the
// external reference. URLs come from PublicURL when set, otherwise the
// virtual-hosted AWS form is used.
type S3Store struct {
	client    S3API
	bucket    string
	region    string
	keyPrefix string
	publicURL string
}

// S3StoreConfig contains configuration for the S3 store
type S3StoreConfig struct {
	Client    S3API
	Bucket    string
	Region    string
	KeyPrefix string
	PublicURL string // e.g. a CDN or MinIO base URL
}

// NewS3Store verifies bucket access and returns the store.
// The bucket must already exist.
func NewS3Store(ctx context.Context, cfg S3StoreConfig) (*S3Store, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	if _, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Store{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		keyPrefix: cfg.KeyPrefix,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// Upload writes the payload with a single PutObject call
func (s *S3Store) Upload(ctx context.Context, data []byte, hint services.UploadHint) (*services.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.keyPrefix + ObjectKey(hint)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if hint.ContentType != "" {
		input.ContentType = aws.String(hint.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to write object to S3: %w", err)
	}

	return &services.StoredObject{
		URL:         s.objectURL(key),
		ExternalRef: key,
	}, nil
}

// Remove deletes the object. Deleting a missing key is not an error in S3.
func (s *S3Store) Remove(ctx context.Context, externalRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(externalRef),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

func (s *S3Store) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if s.publicURL != "" {
		return s.publicURL + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, escaped)
}
