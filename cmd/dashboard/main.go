package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	clientcmd "github.com/ChameeraD/RealTimeDashboard/internal/cmd/client"
	serverrun "github.com/ChameeraD/RealTimeDashboard/internal/cmd/server"
	pebblestore "github.com/ChameeraD/RealTimeDashboard/internal/storage/pebble"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

func main() {
	// CLI logger; the server builds its own from config.
	level, err := logpkg.ParseLevel(os.Getenv("DASH_LOG_LEVEL"))
	if err != nil {
		level = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(logpkg.WithLevel(level), logpkg.WithFormat(logpkg.TextFormat))
	logpkg.RedirectStdLog(logger)

	rootCmd := clientcmd.NewRoot(apiURL)
	rootCmd.Short = "Real-time dashboard server and CLI"
	rootCmd.Long = "dashboard streams telemetry samples to subscribers over gRPC and SSE. This CLI runs the server and talks to it."
	rootCmd.SilenceUsage = true

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the dashboard server (gRPC and HTTP)",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			grpcAddr, _ := cmd.Flags().GetString("grpc")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			env, _ := cmd.Flags().GetString("env")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			mode, err := pebblestore.ParseFsyncMode(fsyncMode)
			if err != nil {
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			cfg, err := serverrun.LoadConfig(configPath)
			if err != nil {
				return err
			}
			// Flags win over file and environment.
			if env != "" {
				cfg.Environment = env
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				GRPCAddr:      grpcAddr,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", os.Getenv("DASH_CONFIG"), "Config file (YAML or JSON)")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("grpc", serverrun.DefaultGRPCAddr, "gRPC listen address")
	serverStartCmd.Flags().String("http", serverrun.DefaultHTTPAddr, "HTTP listen address (SSE, health, metrics)")
	serverStartCmd.Flags().String("fsync", "interval", "Fsync mode for the session ledger: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms")
	serverStartCmd.Flags().String("env", "", "Environment: production|development (overrides config)")
	serverStartCmd.Flags().String("log-level", "", "Log level: debug|info|warn|error (overrides config)")
	serverStartCmd.Flags().String("log-format", "", "Log format: text|json|logfmt (overrides config)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", logpkg.Err(err))
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("DASH_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
