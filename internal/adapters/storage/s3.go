package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const paperFormFolder = "paper-forms"

// Upload errors
var (
	ErrStorageDisabled = errors.New("file storage is not configured")
	ErrUnsupportedFile = fmt.Errorf("%w: only jpg, jpeg, png, webp and pdf files are accepted", domain.ErrInvalidInput)
	ErrFileTooLarge    = fmt.Errorf("%w: file is too large", domain.ErrInvalidInput)
)

// PutObjectAPI is the subset of the S3 client used for uploads
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage stores scanned pledge paper forms in an S3 bucket
type S3Storage struct {
	client  PutObjectAPI
	bucket  string
	region  string
	baseURL string
	maxSize int64
	now     func() time.Time
}

// NewS3Storage builds an S3 client from the storage config. Static keys are
// used when given, otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return NewS3StorageWithClient(s3.NewFromConfig(awsConfig), cfg), nil
}

// NewS3StorageWithClient wires an existing client
func NewS3StorageWithClient(client PutObjectAPI, cfg config.StorageConfig) *S3Storage {
	return &S3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxSize: int64(cfg.MaxUploadMB) << 20,
		now:     time.Now,
	}
}

// UploadPaperForm stores a paper form scan and returns its public URL
func (s *S3Storage) UploadPaperForm(ctx context.Context, filename string, size int64, body io.Reader, staffID uint) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrStorageDisabled
	}

	ext := fileExtension(filename)
	contentType, ok := contentTypes[ext]
	if !ok {
		return "", ErrUnsupportedFile
	}
	if s.maxSize > 0 && size > s.maxSize {
		return "", ErrFileTooLarge
	}

	key := s.objectKey(staffID, ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}

	return s.publicURL(key), nil
}

// objectKey lays files out as folder/staff/yyyy/mm/dd/random.ext
func (s *S3Storage) objectKey(staffID uint, ext string) string {
	now := s.now()
	return fmt.Sprintf("%s/%d/%d/%02d/%02d/%s.%s",
		paperFormFolder,
		staffID,
		now.Year(),
		now.Month(),
		now.Day(),
		strings.ReplaceAll(uuid.New().String(), "-", "")[:16],
		ext,
	)
}

func (s *S3Storage) publicURL(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

var contentTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"pdf":  "application/pdf",
}

func fileExtension(filename string) string {
	ext := filepath.Ext(filename)
	if len(ext) > 1 {
		return strings.ToLower(ext[1:])
	}
	return ""
}
