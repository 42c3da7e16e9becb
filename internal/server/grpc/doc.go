// Package grpcserver hosts the dashboard gRPC server. It registers the
// DashboardService streaming endpoint and the standard gRPC health service,
// and maps feed errors onto status codes.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Config: config.Default()})
//	svc := feedsvc.New(rt, feedsvc.Options{})
//	s := grpcserver.New(rt, svc, grpcserver.Options{MaxMessageBytes: 4 << 20})
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":5001")
package grpcserver
