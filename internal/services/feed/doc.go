// Package feedsvc is the subscription boundary shared by the gRPC and HTTP
// transports. Subscribe validates a request, authorizes the caller, runs one
// telemetry session against the transport's sink and reports the result as
// an *Error carrying a transport-neutral Category.
//
// Example:
//
//	svc := feedsvc.New(rt, feedsvc.Options{Logger: logger, Metrics: m})
//	err := svc.Subscribe(ctx, caller, telemetry.Subscription{SourceID: "sensor-1", IntervalMs: 100},
//		feedsvc.SubscribeOptions{Transport: "grpc"}, sink)
//
// Side effects per session: samples are counted in metrics and mirrored to
// Redis when a mirror is configured, and the terminated session is written
// to the ledger when history is enabled. None of these can fail a session.
package feedsvc
