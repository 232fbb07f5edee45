// Package config loads the family-drop runtime configuration from an
// optional YAML file, FD_* environment variables and command-line flags.
// The resulting Config is built once at startup and treated as immutable.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage providers.
const (
	ProviderDrive   = "drive"
	ProviderDropbox = "dropbox"
	ProviderMinIO   = "minio"
	ProviderMemory  = "memory"
)

// DefaultDriveParentFolderID is the Drive folder that holds one sub-folder per family.
const DefaultDriveParentFolderID = "1a-zvmr8zmUK2KM1M7G1ouIiANscHPFeh"

// EnvPrefix is prepended to every configuration key looked up in the environment.
const EnvPrefix = "FD"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Upload  UploadConfig  `mapstructure:"upload"`
	Log     LogConfig     `mapstructure:"log"`
	CORS    CORSConfig    `mapstructure:"cors"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              string        `mapstructure:"port"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	Version           string        `mapstructure:"version"`
	Commit            string        `mapstructure:"commit"`
}

// Addr returns the listen address, e.g. ":3000".
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

type StorageConfig struct {
	Provider string        `mapstructure:"provider"`
	Drive    DriveConfig   `mapstructure:"drive"`
	Dropbox  DropboxConfig `mapstructure:"dropbox"`
	MinIO    MinIOConfig   `mapstructure:"minio"`
}

type DriveConfig struct {
	// CredentialsJSON is the service account key, usually supplied through
	// GOOGLE_SERVICE_ACCOUNT_JSON.
	CredentialsJSON string `mapstructure:"credentials_json"`
	ParentFolderID  string `mapstructure:"parent_folder_id"`
}

type DropboxConfig struct {
	AccessToken string `mapstructure:"access_token"`
	RootPath    string `mapstructure:"root_path"`
}

type MinIOConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	AccessKey  string        `mapstructure:"access_key"`
	SecretKey  string        `mapstructure:"secret_key"`
	Bucket     string        `mapstructure:"bucket"`
	Prefix     string        `mapstructure:"prefix"`
	LinkExpiry time.Duration `mapstructure:"link_expiry"`
}

type UploadConfig struct {
	// MaxBytes caps the request body; 0 means no limit.
	MaxBytes int64 `mapstructure:"max_bytes"`
	// MaxMemory is the part of a multipart body kept in memory before
	// spilling to temporary files.
	MaxMemory int64         `mapstructure:"max_memory"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NewViper returns a viper instance with defaults and environment bindings.
// Callers may bind command-line flags on it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.version", "dev")
	v.SetDefault("server.commit", "unknown")

	v.SetDefault("storage.provider", ProviderDrive)
	v.SetDefault("storage.drive.credentials_json", "")
	v.SetDefault("storage.drive.parent_folder_id", DefaultDriveParentFolderID)
	v.SetDefault("storage.dropbox.access_token", "")
	v.SetDefault("storage.dropbox.root_path", "/family-drop")
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", "")
	v.SetDefault("storage.minio.prefix", "families/")
	v.SetDefault("storage.minio.link_expiry", 7*24*time.Hour)

	v.SetDefault("upload.max_bytes", 0)
	v.SetDefault("upload.max_memory", 32<<20)
	v.SetDefault("upload.timeout", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names the deployment environment already uses.
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	_ = v.BindEnv("storage.drive.credentials_json", EnvPrefix+"_STORAGE_DRIVE_CREDENTIALS_JSON", "GOOGLE_SERVICE_ACCOUNT_JSON")
	_ = v.BindEnv("storage.dropbox.access_token", EnvPrefix+"_STORAGE_DROPBOX_ACCESS_TOKEN", "DROPBOX_ACCESS_TOKEN")

	return v
}

// Load reads the optional config file, unmarshals every source into a
// Config and validates it. An empty configFile searches for config.yaml in
// the working directory and ./configs; a missing file there is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Storage.Provider = strings.ToLower(strings.TrimSpace(c.Storage.Provider))
	c.Storage.Drive.CredentialsJSON = strings.TrimSpace(c.Storage.Drive.CredentialsJSON)
	c.Storage.Drive.ParentFolderID = strings.TrimSpace(c.Storage.Drive.ParentFolderID)
	c.Storage.Dropbox.AccessToken = strings.TrimSpace(c.Storage.Dropbox.AccessToken)
	c.Storage.Dropbox.RootPath = strings.TrimRight(strings.TrimSpace(c.Storage.Dropbox.RootPath), "/")
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))

	origins := c.CORS.AllowedOrigins[:0]
	for _, o := range c.CORS.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORS.AllowedOrigins = origins
}
