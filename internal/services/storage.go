package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"evaluno/interview-api/internal/config"
)

// StorageService archives uploaded CVs. Keys are opaque to callers.
type StorageService interface {
	Save(ctx context.Context, data []byte, originalName, kind string) (string, error)
	Delete(ctx context.Context, key string) error
	Backend() string
}

// NewStorageService picks the archive backend from config. "none" returns a
// service whose Save yields an empty key.
func NewStorageService(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStorage(cfg.UploadPath)
	case "s3":
		return newS3Storage(ctx, cfg)
	case "none":
		return noopStorage{}, nil
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}

func objectName(originalName, kind string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%s%s", kind, uuid.New().String(), ext)
}

type localStorage struct {
	uploadPath string
}

func NewLocalStorage(uploadPath string) (StorageService, error) {
	s := &localStorage{uploadPath: uploadPath}
	if err := s.EnsureUploadDir(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *localStorage) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	return nil
}

func (s *localStorage) Save(ctx context.Context, data []byte, originalName, kind string) (string, error) {
	key := objectName(originalName, kind)

	if err := os.WriteFile(filepath.Join(s.uploadPath, key), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return key, nil
}

func (s *localStorage) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.uploadPath, filepath.Base(key))); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *localStorage) Backend() string {
	return "local"
}

type s3Storage struct {
	client *s3.Client
	bucket string
}

func newS3Storage(ctx context.Context, cfg config.StorageConfig) (StorageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("🪣 CV archive: s3 bucket %s", cfg.S3Bucket)

	return &s3Storage{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *s3Storage) Save(ctx context.Context, data []byte, originalName, kind string) (string, error) {
	key := "cvs/" + objectName(originalName, kind)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType := mime.TypeByExtension(filepath.Ext(originalName)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}

	return key, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *s3Storage) Backend() string {
	return "s3"
}

type noopStorage struct{}

func (noopStorage) Save(context.Context, []byte, string, string) (string, error) { return "", nil }
func (noopStorage) Delete(context.Context, string) error                         { return nil }
func (noopStorage) Backend() string                                              { return "none" }
