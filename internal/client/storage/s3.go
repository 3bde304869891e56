package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	cc "github.com/dmitrijs2005/dealerdash/internal/client/config"
)

// seams for tests
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// PutObjectAPI is the part of *s3.Client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Uploader struct {
	client     PutObjectAPI
	bucket     string
	publicBase string
	now        func() time.Time
}

// NewS3Uploader builds an S3 client from cfg. Static credentials are used
// when an access key is configured, otherwise the default AWS chain.
func NewS3Uploader(ctx context.Context, cfg cc.S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 storage: bucket is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// MinIO and most self-hosted stores only serve path-style URLs
			o.UsePathStyle = true
		}
	})

	return NewS3UploaderWithClient(client, cfg.Bucket, publicBaseURL(cfg)), nil
}

func NewS3UploaderWithClient(client PutObjectAPI, bucket, publicBase string) *S3Uploader {
	return &S3Uploader{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
	}
}

func (u *S3Uploader) Upload(ctx context.Context, blob Blob, progress ProgressFunc) (string, error) {
	rc, err := blob.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrUploadFailed, blob.Name, err)
	}
	defer rc.Close()

	key := storageKey(u.now(), blob.Name)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          newProgressReader(rc, blob.Size, progress),
		ContentLength: aws.Int64(blob.Size),
		ContentType:   aws.String(blob.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %w", ErrUploadFailed, key, err)
	}
	return u.publicBase + "/" + key, nil
}

// storageKey spreads objects by upload date and keeps the original name
// readable after a unique prefix.
func storageKey(t time.Time, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '?' || r == '#' || r == '%' {
			return '_'
		}
		return r
	}, base)
	return fmt.Sprintf("uploads/%d/%d/%d/%v-%s", t.Year(), t.Month(), t.Day(), uuid.New(), base)
}

func publicBaseURL(cfg cc.S3Config) string {
	if cfg.PublicBaseURL != "" {
		return cfg.PublicBaseURL
	}
	if cfg.Endpoint != "" {
		u, err := url.JoinPath(cfg.Endpoint, cfg.Bucket)
		if err == nil {
			return u
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}
