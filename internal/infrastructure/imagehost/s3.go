package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// S3Config параметры S3-совместимого хранилища (AWS S3 или MinIO)
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicURL       string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	KeyPrefix       string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader кладет изображение в бакет и возвращает публичный адрес объекта
type S3Uploader struct {
	client    putObjectAPI
	bucket    string
	region    string
	publicURL string
	prefix    string
	newKey    func() string
	log       *slog.Logger
}

func NewS3Uploader(ctx context.Context, cfg S3Config, log *slog.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" && cfg.Endpoint != "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return newS3Uploader(client, cfg.Bucket, region, publicURL, cfg.KeyPrefix, log), nil
}

func newS3Uploader(client putObjectAPI, bucket, region, publicURL, prefix string, log *slog.Logger) *S3Uploader {
	return &S3Uploader{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
		prefix:    prefix,
		newKey:    uuid.NewString,
		log:       log.With(slog.String("component", "image_uploader")),
	}
}

// Upload загружает байты изображения. Изображение по адресу уже опубликовано и возвращается как есть.
func (u *S3Uploader) Upload(ctx context.Context, img Image) (string, error) {
	if len(img.Data) == 0 {
		if img.SourceURL != "" {
			return img.SourceURL, nil
		}
		return "", ErrEmptyImage
	}

	key := u.prefix + u.newKey() + img.extension()
	contentType := img.contentType()

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	u.log.Debug("image uploaded", "bucket", u.bucket, "key", key)
	return u.objectURL(key), nil
}

func (u *S3Uploader) objectURL(key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if u.publicURL != "" {
		return u.publicURL + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, escaped)
}
