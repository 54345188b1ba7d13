package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr":        "www.example:9000",
		"public_base_url":      "https://share.example.com",
		"database_dsn":         "dsn",
		"signing_secret":       "my_secret_key",
		"download_url_ttl":     "20m",
		"share_code_length":    8,
		"max_model_size_bytes": 1024,
		"storage_backend":      "s3",
		"storage_dir":          "blobs",
		"s3_root_user":         "user",
		"s3_root_password":     "password",
		"s3_bucket":            "bucket",
		"s3_region":            "region",
		"s3_base_endpoint":     "base_endpoint",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddr)
		assert.Equal(t, "https://share.example.com", cfg.PublicBaseURL)
		assert.Equal(t, "dsn", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SigningSecret)
		assert.Equal(t, 20*time.Minute, cfg.DownloadURLTTL)
		assert.Equal(t, 8, cfg.ShareCodeLength)
		assert.Equal(t, int64(1024), cfg.MaxModelSizeBytes)
		assert.Equal(t, "s3", cfg.StorageBackend)
		assert.Equal(t, "blobs", cfg.StorageDir)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "bucket", cfg.S3Bucket)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddr:   "defaults:1234",
			DatabaseDSN:    "dsn0",
			SigningSecret:  "key",
			DownloadURLTTL: 2 * time.Minute,
			StorageBackend: "local",
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddr)
		assert.Equal(t, "dsn0", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SigningSecret)
		assert.Equal(t, 2*time.Minute, cfg.DownloadURLTTL)
		assert.Equal(t, "local", cfg.StorageBackend)
	})

	t.Run("panics on malformed json", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
