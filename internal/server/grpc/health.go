package grpcserver

import (
	"context"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
	dashboardv1 "github.com/ChameeraD/RealTimeDashboard/proto/gen/go/dashboard/v1"
)

// refreshHealth publishes the runtime's health under both the overall ("")
// and dashboard service names.
func (s *Server) refreshHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.rt.CheckHealth(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.log.Warn("grpc.health_failed", logpkg.Err(err))
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(dashboardv1.DashboardService_ServiceDesc.ServiceName, status)
}

func (s *Server) watchHealth(ctx context.Context) {
	t := s.rt.Clock().Ticker(s.every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.refreshHealth(ctx)
		}
	}
}
