// Package storage issues presigned upload URLs for post attachments
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	appconfig "boardsite/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrInvalidFileName indicates nothing usable is left of the file name
var ErrInvalidFileName = errors.New("invalid file name")

// Upload is a presigned PUT target and the URL the object will be served from
type Upload struct {
	URL       string
	Key       string
	ObjectURL string
	ExpiresIn time.Duration
}

// Presigner hands out upload URLs
type Presigner interface {
	PresignUpload(ctx context.Context, fileName, contentType string) (*Upload, error)
}

// S3Storage presigns PutObject requests against an S3 compatible bucket
type S3Storage struct {
	presign *s3.PresignClient
	cfg     appconfig.StorageConfig
	now     func() time.Time
}

// NewS3Storage builds a presign client from cfg. Static credentials are used
// when an access key is configured, otherwise the default AWS chain applies.
func NewS3Storage(ctx context.Context, cfg appconfig.StorageConfig) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("S3 bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = 15 * time.Minute
	}

	return &S3Storage{
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// PresignUpload returns a PUT URL for a new object holding fileName
func (s *S3Storage) PresignUpload(ctx context.Context, fileName, contentType string) (*Upload, error) {
	key, err := s.objectKey(fileName)
	if err != nil {
		return nil, err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(s.cfg.PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &Upload{
		URL:       req.URL,
		Key:       key,
		ObjectURL: s.ObjectURL(key),
		ExpiresIn: s.cfg.PresignTTL,
	}, nil
}

// ObjectURL returns the public URL of key
func (s *S3Storage) ObjectURL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func (s *S3Storage) objectKey(fileName string) (string, error) {
	name := sanitizeFileName(fileName)
	if name == "" {
		return "", ErrInvalidFileName
	}
	d := s.now().UTC()
	return fmt.Sprintf("posts/%04d/%02d/%s-%s", d.Year(), d.Month(), uuid.New(), name), nil
}

// sanitizeFileName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with a dash
func sanitizeFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-.")
}
