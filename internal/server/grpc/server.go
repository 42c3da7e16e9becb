package grpcserver

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
	dashboardv1 "github.com/ChameeraD/RealTimeDashboard/proto/gen/go/dashboard/v1"
)

// Options configures the gRPC server.
type Options struct {
	Logger logpkg.Logger
	// Auth attaches callers to stream contexts. Nil leaves every caller
	// anonymous with the peer address as correlation token.
	Auth *auth.Authenticator
	// MaxMessageBytes caps request and response sizes. Zero keeps the gRPC
	// defaults.
	MaxMessageBytes int
	// HealthInterval is how often storage health is re-checked. Zero means 10s.
	HealthInterval time.Duration
	// StopTimeout bounds GracefulStop before open RPCs are cut. Zero means 5s.
	StopTimeout   time.Duration
	ServerOptions []grpc.ServerOption
}

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	feed   *feedsvc.Service
	grpc   *grpc.Server
	health *health.Server
	log    logpkg.Logger
	every  time.Duration
	stop   time.Duration
	lis    net.Listener

	// streamCtx parents every stream context; cancelling it ends open
	// subscriptions so GracefulStop does not wait on them.
	streamCtx    context.Context
	cancelStream context.CancelFunc
}

// New constructs a gRPC server and registers the dashboard and health services.
func New(rt *runtime.Runtime, feed *feedsvc.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	every := opts.HealthInterval
	if every <= 0 {
		every = 10 * time.Second
	}
	stop := opts.StopTimeout
	if stop <= 0 {
		stop = 5 * time.Second
	}
	s := &Server{
		rt:     rt,
		feed:   feed,
		health: health.NewServer(),
		log:    logger.With(logpkg.Component("grpc")),
		every:  every,
		stop:   stop,
	}
	s.streamCtx, s.cancelStream = context.WithCancel(context.Background())

	streamInterceptors := []grpc.StreamServerInterceptor{s.shutdownInterceptor}
	var so []grpc.ServerOption
	if opts.MaxMessageBytes > 0 {
		so = append(so, grpc.MaxRecvMsgSize(opts.MaxMessageBytes), grpc.MaxSendMsgSize(opts.MaxMessageBytes))
	}
	if opts.Auth != nil {
		so = append(so, grpc.ChainUnaryInterceptor(opts.Auth.UnaryInterceptor()))
		streamInterceptors = append(streamInterceptors, opts.Auth.StreamInterceptor())
	}
	so = append(so, grpc.ChainStreamInterceptor(streamInterceptors...))
	so = append(so, opts.ServerOptions...)
	s.grpc = grpc.NewServer(so...)

	dashboardv1.RegisterDashboardServiceServer(s.grpc, &dashboardSvc{svc: feed})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.refreshHealth(context.Background())
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done. Open streams are cancelled on
// shutdown and stragglers are cut after StopTimeout.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.lis = l
	s.log.Info("grpc.listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	go s.watchHealth(ctx)
	select {
	case <-ctx.Done():
		s.shutdown()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.shutdown()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func (s *Server) shutdown() {
	s.health.Shutdown()
	s.cancelStream()
	done := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(done)
	}()
	t := time.NewTimer(s.stop)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		s.log.Warn("grpc.stop_timeout", logpkg.Dur("timeout", s.stop))
		s.grpc.Stop()
		<-done
	}
}

// shutdownInterceptor ties each stream's context to the server lifetime.
func (s *Server) shutdownInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, cancel := context.WithCancel(ss.Context())
	defer cancel()
	stop := context.AfterFunc(s.streamCtx, cancel)
	defer stop()
	return handler(srv, &serverStream{ServerStream: ss, ctx: ctx})
}

type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *serverStream) Context() context.Context { return w.ctx }
