// validate.go - Startup configuration validation.
//
// All problems are collected and reported together so that a misconfigured
// deployment fails fast with one readable message instead of at the first
// request.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxPresignExpiry is the longest lifetime S3 accepts for a presigned URL.
const maxPresignExpiry = 7 * 24 * time.Hour

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// ValidationErrors is returned by Validate when at least one setting is invalid.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d error(s):\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Has reports whether field has a recorded error.
func (errs ValidationErrors) Has(field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Validator accumulates validation errors.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// AddError adds a validation error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Err returns the collected errors, or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v.errors
}

// ValidateRequired records an error when value is empty.
func (v *Validator) ValidateRequired(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "required value not set")
	}
}

// ValidatePort validates that a value is a valid port number.
func (v *Validator) ValidatePort(field, value string) {
	if value == "" {
		return
	}

	port, err := strconv.Atoi(strings.TrimPrefix(value, ":"))
	if err != nil {
		v.AddError(field, "port must be a number")
		return
	}

	// 0 asks the kernel for a free port.
	if port < 0 || port > 65535 {
		v.AddError(field, "port must be between 0 and 65535")
	}
}

// ValidateEnum validates that a value is one of allowed options.
func (v *Validator) ValidateEnum(field, value string, allowed []string) {
	for _, opt := range allowed {
		if value == opt {
			return
		}
	}

	v.AddError(field, fmt.Sprintf("must be one of: %s (got: %s)", strings.Join(allowed, ", "), value))
}

// ValidatePositiveDuration records an error for zero or negative durations.
func (v *Validator) ValidatePositiveDuration(field string, d time.Duration) {
	if d <= 0 {
		v.AddError(field, "must be a positive duration")
	}
}

// ValidateJSONObject validates that value parses as a JSON object.
func (v *Validator) ValidateJSONObject(field, value string) {
	if value == "" {
		return
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(value), &obj); err != nil {
		v.AddError(field, fmt.Sprintf("must be a JSON object: %v", err))
	}
}

// ValidateEndpoint accepts "host:port" or an http(s) URL without a path.
func (v *Validator) ValidateEndpoint(field, value string) {
	if value == "" {
		return
	}
	if !strings.Contains(value, "://") {
		return
	}

	u, err := url.Parse(value)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid URL format: %v", err))
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		v.AddError(field, "URL must use http or https scheme")
	}
	if u.Path != "" && u.Path != "/" {
		v.AddError(field, "endpoint must not contain a path")
	}
}

// Validate checks cfg for the settings every deployment needs plus the
// credentials of the selected storage provider.
func Validate(cfg *Config) error {
	v := NewValidator()

	v.ValidateRequired("server.port", cfg.Server.Port)
	v.ValidatePort("server.port", cfg.Server.Port)
	v.ValidatePositiveDuration("server.read_header_timeout", cfg.Server.ReadHeaderTimeout)
	v.ValidatePositiveDuration("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.ValidateEnum("log.level", cfg.Log.Level, []string{"debug", "info", "warn", "error"})
	v.ValidateEnum("log.format", cfg.Log.Format, []string{"json", "text"})

	if cfg.Upload.MaxBytes < 0 {
		v.AddError("upload.max_bytes", "must not be negative")
	}
	if cfg.Upload.MaxMemory <= 0 {
		v.AddError("upload.max_memory", "must be a positive integer")
	}
	v.ValidatePositiveDuration("upload.timeout", cfg.Upload.Timeout)

	v.ValidateEnum("storage.provider", cfg.Storage.Provider,
		[]string{ProviderDrive, ProviderDropbox, ProviderMinIO, ProviderMemory})

	switch cfg.Storage.Provider {
	case ProviderDrive:
		d := cfg.Storage.Drive
		v.ValidateRequired("storage.drive.credentials_json", d.CredentialsJSON)
		v.ValidateJSONObject("storage.drive.credentials_json", d.CredentialsJSON)
		v.ValidateRequired("storage.drive.parent_folder_id", d.ParentFolderID)

	case ProviderDropbox:
		d := cfg.Storage.Dropbox
		v.ValidateRequired("storage.dropbox.access_token", d.AccessToken)
		if d.RootPath != "" && !strings.HasPrefix(d.RootPath, "/") {
			v.AddError("storage.dropbox.root_path", "must start with /")
		}

	case ProviderMinIO:
		m := cfg.Storage.MinIO
		v.ValidateRequired("storage.minio.endpoint", m.Endpoint)
		v.ValidateEndpoint("storage.minio.endpoint", m.Endpoint)
		v.ValidateRequired("storage.minio.access_key", m.AccessKey)
		v.ValidateRequired("storage.minio.secret_key", m.SecretKey)
		v.ValidateRequired("storage.minio.bucket", m.Bucket)
		if m.LinkExpiry < time.Second || m.LinkExpiry > maxPresignExpiry {
			v.AddError("storage.minio.link_expiry", "must be between 1s and 168h")
		}
	}

	return v.Err()
}
