// Package storage provides object storage backends for export files.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	exportapp "github.com/elevatecrm/backend/internal/application/export"
	"github.com/elevatecrm/backend/internal/infrastructure/config"
)

var _ exportapp.ObjectStore = (*S3Store)(nil)

// S3Store stores export files in any S3-compatible backend (AWS S3,
// MinIO, and the like).
type S3Store struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	presignTTL    time.Duration
	logger        *zap.Logger
}

// S3StoreOption configures an S3Store
type S3StoreOption func(*S3Store)

// WithLogger sets the store's logger
func WithLogger(logger *zap.Logger) S3StoreOption {
	return func(s *S3Store) {
		s.logger = logger
	}
}

// NewS3Store creates an S3Store from export configuration
func NewS3Store(cfg config.ExportConfig, opts ...S3StoreOption) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("export bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("export access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("export secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			endpoint, err := normalizeEndpoint(cfg.Endpoint)
			if err == nil {
				o.BaseEndpoint = aws.String(endpoint)
			}
		}
	})

	store := &S3Store{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		presignTTL:    cfg.PresignTTL,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(store)
	}
	if store.presignTTL == 0 {
		store.presignTTL = time.Hour
	}

	return store, nil
}

// normalizeEndpoint ensures the custom endpoint carries a scheme
func normalizeEndpoint(endpoint string) (string, error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("invalid export endpoint: %w", err)
	}
	return endpoint, nil
}

// EnsureBucket creates the bucket if it does not exist. Called once
// during startup.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating export bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Put uploads an export file
func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	if key == "" {
		return errors.New("object key is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(body),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// PresignDownload generates a time-limited download link
func (s *S3Store) PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("object key is required")
	}
	if expiresIn <= 0 {
		expiresIn = s.presignTTL
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign download for %s: %w", key, err)
	}

	return req.URL, time.Now().Add(expiresIn), nil
}

// Delete removes an export file
func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("object key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
