package serverrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
	cfgpkg "github.com/ChameeraD/RealTimeDashboard/internal/config"
	"github.com/ChameeraD/RealTimeDashboard/internal/metrics"
	"github.com/ChameeraD/RealTimeDashboard/internal/mirror"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	grpcserver "github.com/ChameeraD/RealTimeDashboard/internal/server/grpc"
	httpserver "github.com/ChameeraD/RealTimeDashboard/internal/server/http"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	pebblestore "github.com/ChameeraD/RealTimeDashboard/internal/storage/pebble"
	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Default listen addresses.
const (
	DefaultGRPCAddr = ":5001"
	DefaultHTTPAddr = ":8080"
)

// retentionEvery is how often the ledger is trimmed.
const retentionEvery = time.Hour

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir       string
	GRPCAddr      string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// Logger overrides the logger built from Config.Log.
	Logger logpkg.Logger
}

// LoadConfig reads path (optional), overlays DASH_* variables and validates
// the result.
func LoadConfig(path string) (cfgpkg.Config, error) {
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfgpkg.Config{}, err
	}
	return cfg, nil
}

// Run starts gRPC and HTTP servers and blocks until ctx is cancelled or a
// server fails.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = getenvDefault("DASH_DATA_DIR", cfgpkg.DefaultDataDir())
	}
	if opts.GRPCAddr == "" {
		opts.GRPCAddr = getenvDefault("DASH_GRPC_ADDR", DefaultGRPCAddr)
	}
	if opts.HTTPAddr == "" {
		opts.HTTPAddr = getenvDefault("DASH_HTTP_ADDR", DefaultHTTPAddr)
	}
	cfg := opts.Config

	procLogger := opts.Logger
	if procLogger == nil {
		l, err := logpkg.ApplyConfig(&cfg.Log)
		if err != nil {
			return err
		}
		procLogger = l
	}
	// Redirect stdlib logs to our logger
	logpkg.RedirectStdLog(procLogger)

	m := metrics.New()
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        cfg,
		Logger:        procLogger.With(logpkg.Component("pebble")),
		Metrics:       m.Storage(),
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	keys, err := resolverFromConfig(cfg.APIKeys)
	if err != nil {
		return err
	}
	authn := auth.NewAuthenticator(keys, procLogger.With(logpkg.Component("auth")))

	feedOpts := feedsvc.Options{Logger: procLogger, Metrics: m}
	httpOpts := httpserver.Options{Logger: procLogger, Auth: authn, Metrics: m}
	var mirrorQueue *mirror.Queue
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:                  cfg.Redis.Addr,
			Password:              cfg.Redis.Password,
			DB:                    cfg.Redis.DB,
			ContextTimeoutEnabled: true,
		})
		defer client.Close()
		backlog := int64(cfg.Redis.Backlog)
		if backlog == 0 {
			backlog = -1
		}
		pub, err := mirror.New(client, mirror.Options{Channel: cfg.Redis.Channel, Backlog: backlog})
		if err != nil {
			return err
		}
		pctx, cancel := context.WithTimeout(sctx, 2*time.Second)
		if err := pub.Ping(pctx); err != nil {
			procLogger.Warn("mirror.unreachable", logpkg.Str("addr", cfg.Redis.Addr), logpkg.Err(err))
		}
		cancel()
		mlog := procLogger.With(logpkg.Component("mirror"))
		mirrorQueue, err = mirror.NewQueue(pub, mirror.QueueOptions{OnError: func(err error) {
			m.MirrorFailed()
			mlog.Warn("mirror.publish_failed", logpkg.Err(err))
		}})
		if err != nil {
			return err
		}
		feedOpts.Mirror = mirrorQueue
		httpOpts.Backlog = pub
	}

	procLogger.Info("Starting dashboard server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("environment", cfg.EnvironmentMode().String()),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Int("api_keys", keys.Len()),
		logpkg.Bool("history", cfg.History.Enabled),
		logpkg.Bool("mirror", cfg.Redis.Addr != ""),
	)
	if cfg.EnvironmentMode() == telemetry.Development {
		procLogger.Warn("Development mode: anonymous subscribers are allowed")
	}

	svc := feedsvc.New(rt, feedOpts)
	gsrv := grpcserver.New(rt, svc, grpcserver.Options{
		Logger:          procLogger,
		Auth:            authn,
		MaxMessageBytes: cfg.MaxMessageBytes,
	})
	hsrv := httpserver.New(rt, svc, httpOpts)

	g, gctx := errgroup.WithContext(sctx)
	g.Go(func() error {
		if err := gsrv.ListenAndServe(gctx, opts.GRPCAddr); err != nil {
			return fmt.Errorf("grpc: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := hsrv.ListenAndServe(gctx, opts.HTTPAddr); err != nil {
			return fmt.Errorf("http: %w", err)
		}
		return nil
	})
	if mirrorQueue != nil {
		g.Go(func() error {
			mirrorQueue.Run(gctx)
			return nil
		})
	}
	if l := rt.Ledger(); l != nil && cfg.History.Retention > 0 {
		retention := cfg.History.Retention.Std()
		g.Go(func() error {
			if err := l.Trim(gctx, retention); err != nil {
				procLogger.Warn("ledger.trim_failed", logpkg.Err(err))
			}
			l.RunRetention(gctx, retentionEvery, retention, procLogger)
			return nil
		})
	}

	err = g.Wait()
	// Stop servers before closing the runtime/DB to avoid races.
	gsrv.Close()
	hsrv.Close()
	if err != nil {
		procLogger.Error("server stopped", logpkg.Err(err))
	}
	return err
}

func resolverFromConfig(keys []cfgpkg.APIKey) (*auth.KeyResolver, error) {
	out := make([]auth.Key, 0, len(keys))
	for _, k := range keys {
		out = append(out, auth.Key{Subject: k.Subject, Hash: []byte(k.Hash)})
	}
	return auth.NewKeyResolver(out)
}
