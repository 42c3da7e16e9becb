package serverrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/ChameeraD/RealTimeDashboard/internal/config"
	pebblestore "github.com/ChameeraD/RealTimeDashboard/internal/storage/pebble"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

func TestGetenvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{"environment variable set", "DASH_TEST_VAR", "default", "env_value", "env_value"},
		{"environment variable not set", "DASH_TEST_VAR_NOT_SET", "default", "", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}
			if got := getenvDefault(tt.key, tt.def); got != tt.expected {
				t.Errorf("getenvDefault(%s, %s) = %s, expected %s", tt.key, tt.def, got, tt.expected)
			}
		})
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	yml := "environment: development\nminIntervalMs: 200\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DASH_MAX_INTERVAL_MS", "5000")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "development" || cfg.MinIntervalMs != 200 || cfg.MaxIntervalMs != 5000 || cfg.Log.Level != "debug" {
		t.Fatalf("cfg=%+v", cfg)
	}

	t.Setenv("DASH_MIN_INTERVAL_MS", "9000")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("min above max should fail validation")
	}
}

func TestResolverFromConfig(t *testing.T) {
	if _, err := resolverFromConfig([]cfgpkg.APIKey{{Subject: "x", Hash: "not-bcrypt"}}); err == nil {
		t.Fatalf("expected error for invalid hash")
	}
	r, err := resolverFromConfig(nil)
	if err != nil || r.Len() != 0 {
		t.Fatalf("empty resolver: %v", err)
	}
}

// TestRunIntegration starts both servers on ephemeral ports and checks that
// cancellation shuts them down cleanly.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	opts := Options{
		DataDir:  t.TempDir(),
		GRPCAddr: "127.0.0.1:0",
		HTTPAddr: "127.0.0.1:0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
		Logger:   logpkg.NewNopLogger(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := Run(ctx, opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(opts.DataDir, "store")); err != nil {
		t.Fatalf("store dir not created: %v", err)
	}
}

func TestRunFailsOnBadAddress(t *testing.T) {
	opts := Options{
		DataDir:  t.TempDir(),
		GRPCAddr: "not-an-address",
		HTTPAddr: "127.0.0.1:0",
		Fsync:    pebblestore.FsyncModeNever,
		Config:   cfgpkg.Default(),
		Logger:   logpkg.NewNopLogger(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Run(ctx, opts); err == nil {
		t.Fatalf("expected listen error")
	}
}
