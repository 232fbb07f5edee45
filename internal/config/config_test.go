package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testServiceAccount = `{"type":"service_account","client_email":"uploader@example.iam.gserviceaccount.com"}`

func TestLoad_DefaultsWithDriveCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", testServiceAccount)

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr())
	assert.Equal(t, ProviderDrive, cfg.Storage.Provider)
	assert.Equal(t, DefaultDriveParentFolderID, cfg.Storage.Drive.ParentFolderID)
	assert.Equal(t, testServiceAccount, cfg.Storage.Drive.CredentialsJSON)
	assert.Equal(t, 5*time.Minute, cfg.Upload.Timeout)
	assert.Equal(t, int64(32<<20), cfg.Upload.MaxMemory)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingDriveCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")

	_, err := Load(NewViper(), "")
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("storage.drive.credentials_json"))
}

func TestLoad_MalformedDriveCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "{not json")

	_, err := Load(NewViper(), "")

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("storage.drive.credentials_json"))
	assert.Contains(t, err.Error(), "must be a JSON object")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("FD_STORAGE_PROVIDER", "Dropbox")
	t.Setenv("DROPBOX_ACCESS_TOKEN", "sl.token-value")
	t.Setenv("FD_STORAGE_DROPBOX_ROOT_PATH", "/Familias/")
	t.Setenv("FD_UPLOAD_MAX_BYTES", "1048576")
	t.Setenv("FD_UPLOAD_TIMEOUT", "30s")
	t.Setenv("FD_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr())
	assert.Equal(t, ProviderDropbox, cfg.Storage.Provider)
	assert.Equal(t, "sl.token-value", cfg.Storage.Dropbox.AccessToken)
	assert.Equal(t, "/Familias", cfg.Storage.Dropbox.RootPath)
	assert.Equal(t, int64(1048576), cfg.Upload.MaxBytes)
	assert.Equal(t, 30*time.Second, cfg.Upload.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "family-drop.yaml")
	yaml := `
server:
  port: "9090"
storage:
  provider: minio
  minio:
    endpoint: http://localhost:9000
    access_key: minio
    secret_key: minio123
    bucket: families
    link_expiry: 1h
log:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr())
	assert.Equal(t, ProviderMinIO, cfg.Storage.Provider)
	assert.Equal(t, "families", cfg.Storage.MinIO.Bucket)
	assert.Equal(t, "families/", cfg.Storage.MinIO.Prefix)
	assert.Equal(t, time.Hour, cfg.Storage.MinIO.LinkExpiry)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(NewViper(), "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func validMemoryConfig() Config {
	return Config{
		Server: ServerConfig{Port: "3000", ReadHeaderTimeout: time.Second, ShutdownTimeout: time.Second},
		Storage: StorageConfig{
			Provider: ProviderMemory,
		},
		Upload: UploadConfig{MaxMemory: 1 << 20, Timeout: time.Minute},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{
			name:   "memory provider needs no credentials",
			mutate: func(c *Config) {},
		},
		{
			name:      "unknown provider",
			mutate:    func(c *Config) { c.Storage.Provider = "ftp" },
			wantField: "storage.provider",
		},
		{
			name:      "port out of range",
			mutate:    func(c *Config) { c.Server.Port = "70000" },
			wantField: "server.port",
		},
		{
			name:      "port not a number",
			mutate:    func(c *Config) { c.Server.Port = "http" },
			wantField: "server.port",
		},
		{
			name:      "negative max bytes",
			mutate:    func(c *Config) { c.Upload.MaxBytes = -1 },
			wantField: "upload.max_bytes",
		},
		{
			name:      "zero upload timeout",
			mutate:    func(c *Config) { c.Upload.Timeout = 0 },
			wantField: "upload.timeout",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Log.Level = "verbose" },
			wantField: "log.level",
		},
		{
			name: "drive without parent folder",
			mutate: func(c *Config) {
				c.Storage.Provider = ProviderDrive
				c.Storage.Drive.CredentialsJSON = testServiceAccount
			},
			wantField: "storage.drive.parent_folder_id",
		},
		{
			name: "dropbox relative root",
			mutate: func(c *Config) {
				c.Storage.Provider = ProviderDropbox
				c.Storage.Dropbox.AccessToken = "token"
				c.Storage.Dropbox.RootPath = "families"
			},
			wantField: "storage.dropbox.root_path",
		},
		{
			name: "minio endpoint with path",
			mutate: func(c *Config) {
				c.Storage.Provider = ProviderMinIO
				c.Storage.MinIO = MinIOConfig{
					Endpoint: "http://minio:9000/foo", AccessKey: "a", SecretKey: "b",
					Bucket: "c", LinkExpiry: time.Hour,
				}
			},
			wantField: "storage.minio.endpoint",
		},
		{
			name: "minio link expiry too long",
			mutate: func(c *Config) {
				c.Storage.Provider = ProviderMinIO
				c.Storage.MinIO = MinIOConfig{
					Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b",
					Bucket: "c", LinkExpiry: 30 * 24 * time.Hour,
				}
			},
			wantField: "storage.minio.link_expiry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validMemoryConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
			assert.True(t, verrs.Has(tt.wantField), "missing error for %s in %v", tt.wantField, verrs)
		})
	}
}
