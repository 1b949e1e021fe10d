package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"hr_recruit_backend/internal/config"
	"hr_recruit_backend/internal/util"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	maxUploadSize  = 100 << 20
	uploadURLTTL   = 30 * time.Minute
	downloadURLTTL = time.Hour
)

// PresignedPost is a browser form upload target.
type PresignedPost struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// StorageProvider is the object store behind vacancy attachments.
type StorageProvider interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedPost, error)
	PresignDownload(ctx context.Context, key, filename, contentType string, download bool) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

// MinioStorageProvider keeps attachments in a MinIO (or any S3) bucket.
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

// EnsureBucket creates the attachment bucket if it does not exist yet.
func (p *MinioStorageProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.Client.BucketExists(ctx, p.Config.MinioBucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.Config.MinioBucket, err)
	}
	if exists {
		return nil
	}
	if err := p.Client.MakeBucket(ctx, p.Config.MinioBucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", p.Config.MinioBucket, err)
	}
	return nil
}

func (p *MinioStorageProvider) PresignUpload(ctx context.Context, key, contentType string) (*PresignedPost, error) {
	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(p.Config.MinioBucket); err != nil {
		return nil, err
	}
	if err := policy.SetKey(key); err != nil {
		return nil, err
	}
	if err := policy.SetExpires(time.Now().UTC().Add(uploadURLTTL)); err != nil {
		return nil, err
	}
	if err := policy.SetContentType(contentType); err != nil {
		return nil, err
	}
	if err := policy.SetContentLengthRange(1, maxUploadSize); err != nil {
		return nil, err
	}

	u, fields, err := p.Client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return nil, fmt.Errorf("presign upload %s: %w", key, err)
	}
	return &PresignedPost{URL: u.String(), Fields: fields}, nil
}

func (p *MinioStorageProvider) PresignDownload(ctx context.Context, key, filename, contentType string, download bool) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", util.ContentDisposition(filename, download))
	params.Set("response-content-type", contentType)

	u, err := p.Client.PresignedGetObject(ctx, p.Config.MinioBucket, key, downloadURLTTL, params)
	if err != nil {
		return "", fmt.Errorf("presign download %s: %w", key, err)
	}
	return u.String(), nil
}

func (p *MinioStorageProvider) Exists(ctx context.Context, key string) (bool, error) {
	_, err := p.Client.StatObject(ctx, p.Config.MinioBucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", key, err)
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, key, minio.RemoveObjectOptions{})
}
