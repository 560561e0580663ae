package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/config"
)

// FolderEntities is the key prefix for entity images.
const FolderEntities = "entities"

// ObjectStore puts public objects and returns their URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type S3 struct {
	client *s3.Client
	cfg    config.StorageConfig
	logger *zap.Logger
}

func NewS3(cfg config.StorageConfig, logger *zap.Logger) *S3 {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.UsePathStyle,
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	} else {
		logger.Warn("s3 credentials not configured, uploads will fail")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return &S3{client: s3.New(opts), cfg: cfg, logger: logger}
}

// EntityImageKey returns entities/{entityID}/{name}.
func EntityImageKey(entityID, name string) string {
	return path.Join(FolderEntities, entityID, path.Base(name))
}

func (s *S3) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	size := int64(len(body))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: &size,
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	s.logger.Info("object stored", zap.String("key", key), zap.Int64("bytes", size))
	return s.PublicURL(key), nil
}

// PublicURL prefers the configured CDN/base URL over the bucket host.
func (s *S3) PublicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return s.cfg.PublicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
