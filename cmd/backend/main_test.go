package main

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"family-drop/internal/config"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		args      []string
		wantField string
		wantErr   string
	}{
		{
			name:      "drive without credentials",
			env:       map[string]string{"FD_STORAGE_PROVIDER": "drive"},
			wantField: "storage.drive.credentials_json",
		},
		{
			name:      "dropbox without token",
			args:      []string{"--provider", "dropbox"},
			wantField: "storage.dropbox.access_token",
		},
		{
			name:      "unknown provider",
			args:      []string{"--provider", "ftp"},
			wantField: "storage.provider",
		},
		{
			name:    "malformed drive credentials",
			env:     map[string]string{"FD_STORAGE_PROVIDER": "drive", "GOOGLE_SERVICE_ACCOUNT_JSON": "not-json"},
			wantErr: "invalid configuration",
		},
		{
			name: "memory provider",
			args: []string{"--provider", "memory", "--port", "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			v := config.NewViper()
			cmd := newRootCmd(v)
			require.NoError(t, cmd.ParseFlags(tt.args))
			cfgFile, err := cmd.Flags().GetString("config")
			require.NoError(t, err)

			srv, cfg, err := setup(context.Background(), v, cfgFile)

			switch {
			case tt.wantField != "":
				var verrs config.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.True(t, verrs.Has(tt.wantField), "missing %s in %v", tt.wantField, verrs)
			case tt.wantErr != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			default:
				require.NoError(t, err)
				require.NotNil(t, srv)
				assert.Equal(t, config.ProviderMemory, cfg.Storage.Provider)
				assert.Equal(t, "0", cfg.Server.Port)
			}
		})
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FD_STORAGE_PROVIDER", "memory")
	t.Setenv("PORT", "0")

	srv, cfg, err := setup(context.Background(), config.NewViper(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancellation")
	}
}
