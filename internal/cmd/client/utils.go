package client

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	transports "github.com/ChameeraD/RealTimeDashboard/internal/cmd/client/transports"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// grpcAddrFromEnv returns the gRPC server address from DASH_GRPC or a default.
func grpcAddrFromEnv() string {
	if addr := os.Getenv("DASH_GRPC"); addr != "" {
		return addr
	}
	return "127.0.0.1:5001"
}

// dialGRPCContext dials the dashboard gRPC endpoint with insecure transport for local/dev.
func dialGRPCContext(_ context.Context) (*grpc.ClientConn, error) {
	return grpc.NewClient(grpcAddrFromEnv(), grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func getTransport() transports.FeedTransport {
	return transports.NewGrpcTransport(dialGRPCContext)
}

// apiKeyOrEnv prefers the flag value and falls back to DASH_API_KEY.
func apiKeyOrEnv(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("DASH_API_KEY")
}

// describeRPCError renders a gRPC status as "Code: message".
func describeRPCError(err error) error {
	if st, ok := status.FromError(err); ok {
		return fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	return err
}
