// Package storage implements the object-storage collaborator that holds
// uploaded blog photos.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	appconfig "inkwell/internal/config"
	"inkwell/internal/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores a file under the given object key and returns the durable
// public URL for it.
type Uploader interface {
	Upload(ctx context.Context, objectKey string, body io.Reader, contentType string) (string, error)
}

// S3Client talks to an S3-compatible bucket (AWS S3, MinIO, ...).
type S3Client struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	publicBaseURL string
}

// NewS3Client builds an S3 client from application config. A custom endpoint
// switches the client to path-style addressing for MinIO compatibility.
func NewS3Client(ctx context.Context, cfg *appconfig.Config) (*S3Client, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET must be configured")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		loadOpts = append(loadOpts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			scheme := "https"
			if !cfg.S3UseSSL {
				scheme = "http"
			}
			o.BaseEndpoint = aws.String(fmt.Sprintf("%s://%s", scheme, cfg.S3Endpoint))
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.S3Bucket,
		publicBaseURL: publicBaseURL(cfg),
	}, nil
}

func publicBaseURL(cfg *appconfig.Config) string {
	if cfg.S3PublicBaseURL != "" {
		return strings.TrimRight(cfg.S3PublicBaseURL, "/")
	}
	if cfg.S3Endpoint != "" {
		scheme := "https"
		if !cfg.S3UseSSL {
			scheme = "http"
		}
		return fmt.Sprintf("%s://%s/%s", scheme, cfg.S3Endpoint, cfg.S3Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}

// Upload stores the object and returns its public URL.
func (c *S3Client) Upload(ctx context.Context, objectKey string, body io.Reader, contentType string) (string, error) {
	start := time.Now()
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	observability.ObserveUpload(start, err)
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, c.bucket, err)
	}
	return fmt.Sprintf("%s/%s", c.publicBaseURL, objectKey), nil
}

// Delete removes the object. Used when replacing a blog photo is ever wired
// to cleanup; failures are non-fatal to the caller.
func (c *S3Client) Delete(ctx context.Context, objectKey string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", objectKey, c.bucket, err)
	}
	return nil
}
