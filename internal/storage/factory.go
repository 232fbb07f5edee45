package storage

import (
	"context"
	"fmt"

	"family-drop/internal/config"
	"family-drop/internal/logging"
)

// New builds the backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderDrive:
		logging.Info("storage_backend", map[string]any{
			"provider":      cfg.Provider,
			"parent_folder": cfg.Drive.ParentFolderID,
		})
		return NewDrive(ctx, cfg.Drive)
	case config.ProviderDropbox:
		logging.Info("storage_backend", map[string]any{
			"provider": cfg.Provider,
			"root":     cfg.Dropbox.RootPath,
			"token":    logging.MaskSecret(cfg.Dropbox.AccessToken),
		})
		return NewDropbox(cfg.Dropbox), nil
	case config.ProviderMinIO:
		logging.Info("storage_backend", map[string]any{
			"provider":   cfg.Provider,
			"endpoint":   cfg.MinIO.Endpoint,
			"bucket":     cfg.MinIO.Bucket,
			"access_key": logging.MaskSecret(cfg.MinIO.AccessKey),
		})
		return NewMinIO(ctx, cfg.MinIO)
	case config.ProviderMemory:
		logging.Warn("storage_backend", map[string]any{
			"provider": cfg.Provider,
			"note":     "uploads are kept in process memory only",
		})
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
