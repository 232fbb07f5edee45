//go:build integration

// MinIO round trip against a real server started with dockertest.
//
// Requires Docker. Run:
//
//	go test -tags integration ./internal/storage -run TestMinIO_Integration
//
// FD_MINIO_TEST_TAG overrides the MinIO image tag.

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-drop/internal/config"
)

func startMinIO(t *testing.T) config.MinIOConfig {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	tag := os.Getenv("FD_MINIO_TEST_TAG")
	if tag == "" {
		tag = "RELEASE.2024-01-31T20-20-33Z"
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        tag,
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=minio",
			"MINIO_ROOT_PASSWORD=minio123",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		t.Fatalf("could not start minio: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	endpoint := "localhost:" + resource.GetPort("9000/tcp")

	if err := pool.Retry(func() error {
		resp, err := http.Get("http://" + endpoint + "/minio/health/live")
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("minio not ready: %d", resp.StatusCode)
		}
		return nil
	}); err != nil {
		t.Fatalf("minio not ready: %v", err)
	}

	mc, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4("minio", "minio123", ""),
	})
	require.NoError(t, err)

	bucket := "family-drop"
	require.NoError(t, mc.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}))

	return config.MinIOConfig{
		Endpoint:   "http://" + endpoint,
		AccessKey:  "minio",
		SecretKey:  "minio123",
		Bucket:     bucket,
		Prefix:     "families/",
		LinkExpiry: time.Hour,
	}
}

func TestMinIO_Integration(t *testing.T) {
	cfg := startMinIO(t)
	ctx := context.Background()

	m, err := NewMinIO(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, m.Ping(ctx))

	c1, err := m.ResolveContainer(ctx, "Smith")
	require.NoError(t, err)
	c2, err := m.ResolveContainer(ctx, "Smith")
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	assert.Equal(t, "families/Smith/", c1.ID)

	payload := "hello family"
	ref, err := m.WriteObject(ctx, c1, Object{
		Name:        "photo.jpg",
		ContentType: "image/jpeg",
		Size:        int64(len(payload)),
		Body:        strings.NewReader(payload),
	})
	require.NoError(t, err)
	assert.Equal(t, "families/Smith/photo.jpg", ref.ID)

	link, err := m.IssueShareableLink(ctx, ref)
	require.NoError(t, err)

	resp, err := http.Get(link)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="photo.jpg"`)
}

func TestMinIO_IntegrationMissingBucket(t *testing.T) {
	cfg := startMinIO(t)
	cfg.Bucket = "does-not-exist"

	_, err := NewMinIO(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
