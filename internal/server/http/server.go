package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
	"github.com/ChameeraD/RealTimeDashboard/internal/metrics"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	"github.com/ChameeraD/RealTimeDashboard/internal/server/http/controllers"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Options configures the HTTP gateway. Every field is optional.
type Options struct {
	Logger  logpkg.Logger
	Auth    *auth.Authenticator
	Metrics *metrics.Metrics
	// Backlog serves /v1/feed/recent when the Redis mirror is enabled.
	Backlog controllers.Backlog
}

type Server struct {
	rt  *runtime.Runtime
	srv *http.Server
	lis net.Listener
	log logpkg.Logger
}

func New(rt *runtime.Runtime, feed *feedsvc.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	logger = logger.With(logpkg.Component("http"))
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, feed, opts.Metrics, opts.Backlog, logger).RegisterAllRoutes(mux)

	var h http.Handler = mux
	if opts.Auth != nil {
		h = opts.Auth.Middleware(h)
	} else {
		h = auth.NewAuthenticator(nil, logger).Middleware(h)
	}
	return &Server{
		rt:  rt,
		log: logger,
		srv: &http.Server{
			Handler:           cors(h),
			ReadHeaderTimeout: 10 * time.Second,
			ErrorLog:          logpkg.ToStdLogger(logger, logpkg.WarnLevel),
		},
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	// Request contexts derive from ctx so open SSE streams end on shutdown.
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	s.log.Info("http.listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(cctx); err != nil {
			_ = s.srv.Close()
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
