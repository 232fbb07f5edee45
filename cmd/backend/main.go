package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"family-drop/internal/config"
	"family-drop/internal/logging"
	"family-drop/internal/server"
	"family-drop/internal/storage"
	"family-drop/internal/upload"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = ""
	commit  = ""
)

func main() {
	if err := newRootCmd(config.NewViper()).Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "family-drop",
		Short: "Upload family photos to cloud storage and hand out share links",
		Long: `family-drop serves POST /upload. Each request names a family and carries
one or more files; the files are stored in the family's folder at the
configured provider (Google Drive, Dropbox, MinIO) and the response lists
a shareable link per file.

Configuration comes from an optional YAML file, FD_* environment variables
and the flags below. GOOGLE_SERVICE_ACCOUNT_JSON, DROPBOX_ACCESS_TOKEN and
PORT are honoured as well.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, cfg, err := setup(ctx, v, configFile)
			if err != nil {
				return err
			}
			return serve(ctx, srv, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "path to a YAML config file (default ./config.yaml if present)")
	flags.String("port", "", "HTTP listen port (overrides PORT)")
	flags.String("provider", "", "storage provider: drive, dropbox, minio or memory")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	bindFlag(v, cmd, "server.port", "port")
	bindFlag(v, cmd, "storage.provider", "provider")
	bindFlag(v, cmd, "log.level", "log-level")

	return cmd
}

func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// setup loads configuration and builds the server. Any error here is a
// startup failure and ends the process before it serves requests.
func setup(ctx context.Context, v *viper.Viper, configFile string) (*server.Server, *config.Config, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if version != "" {
		cfg.Server.Version = version
	}
	if commit != "" {
		cfg.Server.Commit = commit
	}

	if err := logging.Init(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}); err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}

	backend, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logging.Error("storage_init_failed", map[string]any{"provider": cfg.Storage.Provider}, err)
		return nil, nil, fmt.Errorf("init %s storage: %w", cfg.Storage.Provider, err)
	}

	var health storage.HealthChecker
	if hc, ok := backend.(storage.HealthChecker); ok {
		health = hc
	}

	srv := server.New(*cfg, upload.New(backend, cfg.Storage.Provider), health)
	return srv, cfg, nil
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *server.Server, cfg *config.Config) error {
	defer func() { _ = logging.Default().Sync() }()

	// Start the HTTP server in a background goroutine.
	// This allows us to wait for a shutdown signal while the server runs.
	errCh := make(chan error, 1)
	go func() {
		logging.Info("starting", map[string]any{
			"addr":     cfg.Server.Addr(),
			"provider": cfg.Storage.Provider,
			"version":  cfg.Server.Version,
			"commit":   cfg.Server.Commit,
		})
		errCh <- srv.Start()
	}()

	// Block until either a shutdown signal is received or the server encounters an error.
	select {
	case <-ctx.Done():
		logging.Info("shutting_down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("shutdown_error", nil, err)
			return err
		}
		logging.Info("shutdown_complete", nil)
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("server_error", nil, err)
			return err
		}
		return nil
	}
}
