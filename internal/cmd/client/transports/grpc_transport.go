// Package transports provides pluggable transport implementations for the CLI.
package transports

import (
	"context"
	"errors"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	dashboardv1 "github.com/ChameeraD/RealTimeDashboard/proto/gen/go/dashboard/v1"
)

// GrpcTransport implements FeedTransport over gRPC.
type GrpcTransport struct {
	dial func(ctx context.Context) (*grpc.ClientConn, error)
}

// NewGrpcTransport constructs a new GrpcTransport using the provided dialer.
func NewGrpcTransport(dial func(ctx context.Context) (*grpc.ClientConn, error)) *GrpcTransport {
	return &GrpcTransport{dial: dial}
}

func (t *GrpcTransport) withClient(ctx context.Context, fn func(cli dashboardv1.DashboardServiceClient) error) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(dashboardv1.NewDashboardServiceClient(conn))
}

// Subscribe streams points and invokes onPoint for each one. Reaching
// req.Limit or cancelling ctx ends the call without error.
func (t *GrpcTransport) Subscribe(ctx context.Context, req SubscribeRequest, onPoint func(Point) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if req.APIKey != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+req.APIKey)
	}
	return t.withClient(ctx, func(cli dashboardv1.DashboardServiceClient) error {
		stream, err := cli.Subscribe(ctx, &dashboardv1.Subscription{
			SourceId:   req.SourceID,
			IntervalMs: req.IntervalMs,
			Filter:     req.Filter,
		})
		if err != nil {
			return err
		}
		received := 0
		for {
			dp, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			if cbErr := onPoint(Point{Timestamp: dp.GetTimestamp(), Value: dp.GetValue()}); cbErr != nil {
				return cbErr
			}
			received++
			if req.Limit > 0 && received >= req.Limit {
				return nil
			}
		}
	})
}
