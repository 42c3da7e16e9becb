package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/ChameeraD/RealTimeDashboard/internal/auth"
	feedsvc "github.com/ChameeraD/RealTimeDashboard/internal/services/feed"
	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	dashboardv1 "github.com/ChameeraD/RealTimeDashboard/proto/gen/go/dashboard/v1"
)

type dashboardSvc struct {
	dashboardv1.UnimplementedDashboardServiceServer
	svc *feedsvc.Service
}

// grpcSink pushes samples as DataPoints. Send blocks under flow control and
// fails once the stream context is done.
type grpcSink struct {
	stream grpc.ServerStreamingServer[dashboardv1.DataPoint]
}

func (g grpcSink) Send(_ context.Context, s telemetry.Sample) error {
	return g.stream.Send(&dashboardv1.DataPoint{Timestamp: s.TimestampMs, Value: s.Value})
}

func (d *dashboardSvc) Subscribe(req *dashboardv1.Subscription, stream grpc.ServerStreamingServer[dashboardv1.DataPoint]) error {
	ctx := stream.Context()
	sub := telemetry.Subscription{
		SourceID:   req.GetSourceId(),
		IntervalMs: req.GetIntervalMs(),
		Filter:     req.GetFilter(),
	}
	err := d.svc.Subscribe(ctx, callerFrom(ctx), sub, feedsvc.SubscribeOptions{Transport: "grpc"}, grpcSink{stream: stream})
	return toStatus(err)
}

// callerFrom prefers the caller set by the auth interceptor and falls back
// to an anonymous caller identified by peer address.
func callerFrom(ctx context.Context) telemetry.Caller {
	c := auth.CallerFromContext(ctx)
	if c.Peer == "" {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			c.Peer = p.Addr.String()
		}
	}
	return c
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var fe *feedsvc.Error
	if !errors.As(err, &fe) {
		return status.Error(codes.Internal, "internal error")
	}
	switch fe.Category {
	case feedsvc.InvalidArgument:
		return status.Error(codes.InvalidArgument, fe.Message)
	case feedsvc.PermissionDenied:
		return status.Error(codes.PermissionDenied, fe.Message)
	default:
		return status.Error(codes.Internal, fe.Message)
	}
}
