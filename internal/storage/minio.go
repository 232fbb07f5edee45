package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"family-drop/internal/config"
	"family-drop/internal/logging"
)

// MinIO stores each family under a key prefix in one bucket. An empty
// marker object at "<prefix><family>/" records that the container exists
// so that empty families still show up in bucket listings.
type MinIO struct {
	client     *minio.Client
	bucket     string
	prefix     string
	linkExpiry time.Duration
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	// Accept either "minio:9000" or "http://minio:9000" / "https://minio:9000".
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// host:port without a scheme is plain HTTP, which is what a local MinIO serves.
	return raw, false, nil
}

// NewMinIO connects to the configured endpoint and checks that the bucket exists.
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIO, error) {
	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	m := &MinIO{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		linkExpiry: cfg.LinkExpiry,
	}
	if err := m.Ping(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MinIO) markerKey(name string) string {
	return m.prefix + name + "/"
}

func (m *MinIO) ResolveContainer(ctx context.Context, name string) (Container, error) {
	key := m.markerKey(name)
	c := Container{ID: key, Name: name}

	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return c, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return Container{}, fmt.Errorf("stat minio container %s: %w", key, err)
	}

	// Writing the marker twice is harmless, so racing creators converge.
	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType: "application/x-directory",
	})
	if err != nil {
		return Container{}, fmt.Errorf("create minio container %s: %w", key, err)
	}
	logging.Info("minio_container_created", map[string]any{"bucket": m.bucket, "key": key, "family": name})

	return c, nil
}

func (m *MinIO) WriteObject(ctx context.Context, c Container, obj Object) (ObjectRef, error) {
	key := c.ID + obj.Name

	info, err := m.client.PutObject(ctx, m.bucket, key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return ObjectRef{}, fmt.Errorf("upload %q to minio: %w", obj.Name, err)
	}

	logging.Debug("minio_object_written", map[string]any{"bucket": m.bucket, "key": key, "size": info.Size})
	return ObjectRef{ID: key, Name: obj.Name, Container: c}, nil
}

// IssueShareableLink returns a presigned GET URL that downloads the object
// under its original name.
func (m *MinIO) IssueShareableLink(ctx context.Context, ref ObjectRef) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", ref.Name))

	u, err := m.client.PresignedGetObject(ctx, m.bucket, ref.ID, m.linkExpiry, params)
	if err != nil {
		return "", fmt.Errorf("presign minio link for %q: %w", ref.Name, err)
	}
	return u.String(), nil
}

// Ping checks that the bucket exists and the credentials can see it.
func (m *MinIO) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("minio ping: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio bucket does not exist: %s", m.bucket)
	}
	return nil
}
