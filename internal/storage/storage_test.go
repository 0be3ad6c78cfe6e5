package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "exports/predictions_20260101.csv", JoinKey("", "/exports/", "predictions_20260101.csv"))
	assert.Equal(t, "a/b", JoinKey("a", "", "b/"))
	assert.Equal(t, "", JoinKey())
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://localhost:9000", true, "localhost:9000", false},
		{"minio:9000", true, "minio:9000", true},
		{"//minio:9000", false, "minio:9000", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			host, secure := normalizeEndpoint(tt.raw, tt.useSSL)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}

func TestNewMinioClient_Validation(t *testing.T) {
	_, err := NewMinioClient(config.StorageConfig{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewMinioClient(config.StorageConfig{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "credentials")

	_, err = NewMinioClient(config.StorageConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.ErrorContains(t, err, "bucket")

	c, err := NewMinioClient(config.StorageConfig{
		Endpoint: "http://localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "inventory", Prefix: "/prod/",
	})
	require.NoError(t, err)
	assert.Equal(t, "prod/exports/x.csv", c.key("exports/x.csv"))
}

func TestLocalStorage_UploadListDownload(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.UploadObject(ctx, "exports/a.csv", []byte("ProductId\n1\n"), "text/csv"))
	require.NoError(t, s.UploadObject(ctx, "imports/b.csv", []byte("x"), "text/csv"))

	objects, err := s.ListObjects(ctx, "exports")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "exports/a.csv", objects[0].Key)
	assert.Equal(t, int64(12), objects[0].Size)

	dest := filepath.Join(t.TempDir(), "out", "a.csv")
	require.NoError(t, s.DownloadObject(ctx, "exports/a.csv", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "ProductId\n1\n", string(data))
}
