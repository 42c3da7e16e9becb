package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Authenticator resolves callers for both transports. A nil resolver treats
// every caller as anonymous.
type Authenticator struct {
	keys *KeyResolver
	log  logpkg.Logger
}

// NewAuthenticator returns an Authenticator. Rejected keys are logged at debug.
func NewAuthenticator(keys *KeyResolver, logger logpkg.Logger) *Authenticator {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	return &Authenticator{keys: keys, log: logger}
}

// authenticate returns the caller for token and peerAddr. A bad key leaves the
// caller anonymous; the access gate decides what that means.
func (a *Authenticator) authenticate(token, peerAddr string) (c telemetry.Caller) {
	c.Peer = peerAddr
	if token == "" {
		return c
	}
	id, err := a.keys.Resolve(token)
	if err != nil {
		a.log.Debug("auth.invalid_key", logpkg.Str("peer", peerAddr))
		return c
	}
	c.Identity = id
	return c
}

// UnaryInterceptor attaches the caller to unary request contexts.
func (a *Authenticator) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(a.grpcContext(ctx), req)
	}
}

// StreamInterceptor attaches the caller to stream contexts.
func (a *Authenticator) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		return handler(srv, &callerStream{ServerStream: ss, ctx: a.grpcContext(ss.Context())})
	}
}

func (a *Authenticator) grpcContext(ctx context.Context) context.Context {
	var token, addr string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get("authorization"); len(v) > 0 {
			token = BearerToken(v[0])
		}
	}
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr = p.Addr.String()
	}
	return WithCaller(ctx, a.authenticate(token, addr))
}

type callerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *callerStream) Context() context.Context { return s.ctx }
