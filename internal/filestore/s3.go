package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/magabrotheeeer/meetapp/internal/config"
)

// S3 хранит файлы в бакете S3-совместимого хранилища.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 создаёт клиента S3. Если задан Endpoint, используется path-style адресация.
func NewS3(ctx context.Context, cfg config.S3) (*S3, error) {
	const op = "filestore.NewS3"
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%s: bucket is not set", op)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AccessKeyID,
					SecretAccessKey: cfg.SecretAccessKey,
				}, nil
			},
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

// Save загружает объект key.
func (s *S3) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	const op = "filestore.S3.Save"
	if err := validateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Open возвращает тело объекта key.
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	const op = "filestore.S3.Open"
	if err := validateKey(key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotExist)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out.Body, nil
}

// Delete удаляет объект key.
func (s *S3) Delete(ctx context.Context, key string) error {
	const op = "filestore.S3.Delete"
	if err := validateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
