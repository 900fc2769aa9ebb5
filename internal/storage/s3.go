package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"wedding/site/internal/config"
)

type S3Store struct {
	client        s3iface.S3API
	region        string
	endpoint      string
	publicBaseURL string
}

// NewS3Store builds a client from config. Without static keys the default
// AWS credential chain is used.
func NewS3Store(cfg config.StorageConfig) (*S3Store, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.S3.Region),
		S3ForcePathStyle: aws.Bool(cfg.S3.ForcePathStyle),
	}
	if cfg.S3.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3.Endpoint)
	}
	if cfg.S3.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewS3StoreWithClient(s3.New(sess), cfg), nil
}

func NewS3StoreWithClient(client s3iface.S3API, cfg config.StorageConfig) *S3Store {
	return &S3Store{
		client:        client,
		region:        cfg.S3.Region,
		endpoint:      cfg.S3.Endpoint,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

func (s *S3Store) Upload(ctx context.Context, bucket, key string, body io.ReadSeeker, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// PublicURL prefers the configured CDN or proxy base, then a custom
// endpoint in path style, then the regional virtual-hosted S3 URL.
func (s *S3Store) PublicURL(bucket, key string) string {
	switch {
	case s.publicBaseURL != "":
		return joinURL(s.publicBaseURL, bucket, key)
	case s.endpoint != "":
		return joinURL(s.endpoint, bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
	}
}
