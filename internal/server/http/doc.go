// Package httpserver is the dashboard's HTTP gateway: a Server-Sent Events
// rendition of Subscribe for browsers, session history, the mirrored sample
// backlog, health and Prometheus metrics.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Config: config.Default()})
//	svc := feedsvc.New(rt, feedsvc.Options{})
//	s := httpserver.New(rt, svc, httpserver.Options{Metrics: metrics.New()})
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":8080")
package httpserver
