package auth

import (
	"context"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
)

type callerKey struct{}

// WithCaller stores c in ctx.
func WithCaller(ctx context.Context, c telemetry.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller attached by the interceptors or
// middleware, or an anonymous caller with an empty peer.
func CallerFromContext(ctx context.Context) telemetry.Caller {
	if c, ok := ctx.Value(callerKey{}).(telemetry.Caller); ok {
		return c
	}
	return telemetry.Caller{}
}
