package grpcserver

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
	cfgpkg "github.com/ChameeraD/RealTimeDashboard/internal/config"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	pebblestore "github.com/ChameeraD/RealTimeDashboard/internal/storage/pebble"
	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	dashboardv1 "github.com/ChameeraD/RealTimeDashboard/proto/gen/go/dashboard/v1"
)

const bufSize = 1 << 20

func dialer(s *grpc.Server) func(context.Context, string) (net.Conn, error) {
	lis := bufconn.Listen(bufSize)
	go func() { _ = s.Serve(lis) }()
	return func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
}

type fixture struct {
	client dashboardv1.DashboardServiceClient
	health healthpb.HealthClient
}

func newFixture(t *testing.T, env string, feedOpts feedsvc.Options) fixture {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.Environment = env
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever, Config: cfg})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("dash_test"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	keys, err := auth.NewKeyResolver([]auth.Key{{Subject: "tester", Hash: hash}})
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	srv := New(rt, feedsvc.New(rt, feedOpts), Options{Auth: auth.NewAuthenticator(keys, nil), MaxMessageBytes: 1 << 20})
	t.Cleanup(srv.Close)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer(srv.grpc)),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return fixture{client: dashboardv1.NewDashboardServiceClient(conn), health: healthpb.NewHealthClient(conn)}
}

// drain reads until the stream ends and returns the points and final error.
func drain(stream grpc.ServerStreamingClient[dashboardv1.DataPoint]) ([]*dashboardv1.DataPoint, error) {
	var out []*dashboardv1.DataPoint
	for {
		p, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, p)
	}
}

func TestSubscribeEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	f := newFixture(t, "development", feedsvc.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 550*time.Millisecond)
	defer cancel()
	stream, err := f.client.Subscribe(ctx, &dashboardv1.Subscription{SourceId: "sensor-1", IntervalMs: 100})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	points, err := drain(stream)
	if status.Code(err) != codes.DeadlineExceeded {
		t.Fatalf("expected deadline, got %v", err)
	}
	if len(points) < 4 || len(points) > 6 {
		t.Fatalf("got %d points, want 5±1", len(points))
	}
	for i, p := range points {
		if p.GetValue() < 0 || p.GetValue() >= 100 {
			t.Fatalf("value out of range: %v", p.GetValue())
		}
		if i > 0 && p.GetTimestamp() < points[i-1].GetTimestamp() {
			t.Fatalf("timestamp decreased at %d", i)
		}
	}
}

func TestSubscribeInvalidArgument(t *testing.T) {
	f := newFixture(t, "development", feedsvc.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, req := range []*dashboardv1.Subscription{
		{IntervalMs: 100},
		{SourceId: "sensor-1", IntervalMs: 99},
		{SourceId: "sensor-1", IntervalMs: 10001},
		{SourceId: "sensor-1", IntervalMs: 100, Filter: "value >"},
	} {
		stream, err := f.client.Subscribe(ctx, req)
		if err != nil {
			t.Fatalf("subscribe: %v", err)
		}
		points, err := drain(stream)
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("req=%v err=%v", req, err)
		}
		if len(points) != 0 {
			t.Fatalf("rejected request produced %d points", len(points))
		}
	}
}

func TestSubscribeProductionAuth(t *testing.T) {
	f := newFixture(t, "production", feedsvc.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	stream, err := f.client.Subscribe(ctx, &dashboardv1.Subscription{SourceId: "sensor-1", IntervalMs: 100})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := drain(stream); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("anonymous err=%v", err)
	}

	bad := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer wrong")
	stream, err = f.client.Subscribe(bad, &dashboardv1.Subscription{SourceId: "sensor-1", IntervalMs: 100})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := drain(stream); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("bad key err=%v", err)
	}

	good, stop := context.WithCancel(metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer dash_test"))
	defer stop()
	stream, err = f.client.Subscribe(good, &dashboardv1.Subscription{SourceId: "sensor-1", IntervalMs: 100})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := stream.Recv(); err != nil {
		t.Fatalf("authenticated recv: %v", err)
	}
}

func TestSubscribeGenerationFaultIsInternal(t *testing.T) {
	src := telemetry.SourceFunc(func(string) (telemetry.Sample, error) {
		return telemetry.Sample{}, errors.New("sensor offline")
	})
	f := newFixture(t, "development", feedsvc.Options{Source: src})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	stream, err := f.client.Subscribe(ctx, &dashboardv1.Subscription{SourceId: "sensor-1", IntervalMs: 100})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	_, err = drain(stream)
	st, _ := status.FromError(err)
	if st.Code() != codes.Internal {
		t.Fatalf("err=%v", err)
	}
	if st.Message() == "sensor offline" {
		t.Fatalf("raw cause leaked to caller")
	}
}

func TestHealthOverGRPC(t *testing.T) {
	f := newFixture(t, "development", feedsvc.Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, svc := range []string{"", dashboardv1.DashboardService_ServiceDesc.ServiceName} {
		res, err := f.health.Check(ctx, &healthpb.HealthCheckRequest{Service: svc})
		if err != nil {
			t.Fatalf("check %q: %v", svc, err)
		}
		if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("status %q=%v", svc, res.GetStatus())
		}
	}
}

func TestToStatus(t *testing.T) {
	if toStatus(nil) != nil {
		t.Fatalf("nil should map to nil")
	}
	if status.Code(toStatus(errors.New("raw"))) != codes.Internal {
		t.Fatalf("unclassified should be internal")
	}
	if got := status.Convert(toStatus(errors.New("raw"))).Message(); got != "internal error" {
		t.Fatalf("message=%q", got)
	}
	if status.Code(toStatus(&feedsvc.Error{Category: feedsvc.PermissionDenied, Message: "m"})) != codes.PermissionDenied {
		t.Fatalf("permission denied mapping")
	}
}

func TestShutdownEndsOpenSubscriptions(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Environment = "development"
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever, Config: cfg})
	if err != nil {
		t.Fatalf("rt open: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	srv := New(rt, feedsvc.New(rt, feedsvc.Options{}), Options{StopTimeout: 3 * time.Second})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	serveCtx, stopServe := context.WithCancel(context.Background())
	defer stopServe()
	served := make(chan error, 1)
	go func() { served <- srv.Serve(serveCtx, l) }()

	conn, err := grpc.NewClient(l.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = conn.Close() }()
	stream, err := dashboardv1.NewDashboardServiceClient(conn).Subscribe(context.Background(),
		&dashboardv1.Subscription{SourceId: "sensor-1", IntervalMs: 100})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := stream.Recv(); err != nil {
		t.Fatalf("first point: %v", err)
	}

	stopServe()
	start := time.Now()
	select {
	case err := <-served:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Serve still blocked 2s after shutdown with an open subscription")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("shutdown took %v", elapsed)
	}
	// The session ends as a clean cancellation, so the client sees end of stream.
	points, err := drain(stream)
	if err != nil {
		t.Fatalf("stream end: %v", err)
	}
	if len(points) > 2 {
		t.Fatalf("%d points delivered after shutdown began", len(points))
	}
}
