package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/config"
)

const noSuchKey = "NoSuchKey"

// S3Backend stores artifacts in an S3-compatible bucket through the minio client.
type S3Backend struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewS3Backend(cfg config.S3Config) (*S3Backend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + cfg.Bucket
	}

	return &S3Backend{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (b *S3Backend) Name() string { return "s3" }

func (b *S3Backend) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	_, err := b.client.StatObject(ctx, b.bucket, name, minio.StatObjectOptions{})
	switch {
	case err == nil:
		return "", fmt.Errorf("artifact %s already exists", name)
	case minio.ToErrorResponse(err).Code != noSuchKey:
		return "", fmt.Errorf("failed to stat object: %w", err)
	}

	_, err = b.client.PutObject(ctx, b.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload to s3: %w", err)
	}
	return b.objectURL(name), nil
}

func (b *S3Backend) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.readError(name, err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, b.readError(name, err)
	}
	return data, nil
}

func (b *S3Backend) HealthCheck(ctx context.Context) error {
	ok, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", b.bucket)
	}
	return nil
}

func (b *S3Backend) objectURL(name string) string {
	return b.publicURL + "/" + name
}

func (b *S3Backend) readError(name string, err error) error {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return apperrors.Wrap(apperrors.KindNotFound, "storage.s3.get", "artifact not found", err)
	}
	return fmt.Errorf("failed to read %s from s3: %w", name, err)
}
