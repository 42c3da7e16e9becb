package telemetry

import (
	"fmt"
	"strings"

	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Environment selects the access policy.
type Environment int

const (
	Production Environment = iota
	Development
)

func (e Environment) String() string {
	if e == Development {
		return "development"
	}
	return "production"
}

// ParseEnvironment accepts "production"/"prod" and "development"/"dev".
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "production", "prod":
		return Production, nil
	case "development", "dev":
		return Development, nil
	default:
		return Production, fmt.Errorf("unknown environment %q", s)
	}
}

// Identity is an authenticated principal attached by the transport.
type Identity struct {
	Subject string
	// Method names how the identity was established, e.g. "api_key".
	Method string
}

// Caller is everything the core needs to know about who opened a stream.
type Caller struct {
	// Identity is nil for anonymous callers.
	Identity *Identity
	// Peer is a correlation token for logs, usually the remote address.
	Peer string
}

// Subject returns the identity subject or "" for anonymous callers.
func (c Caller) Subject() string {
	if c.Identity == nil {
		return ""
	}
	return c.Identity.Subject
}

// Gate decides whether a caller may open a stream.
type Gate struct {
	env   Environment
	audit Observer
}

// NewGate returns a gate for env. Denials are reported to audit at warn level.
func NewGate(env Environment, audit Observer) *Gate {
	if audit == nil {
		audit = logpkg.NewNopLogger()
	}
	return &Gate{env: env, audit: audit}
}

// Environment returns the policy the gate enforces.
func (g *Gate) Environment() Environment { return g.env }

// Authorize allows every caller in Development. In Production a caller
// without an identity is rejected with *AuthorizationError.
func (g *Gate) Authorize(c Caller) error {
	if g.env == Development || c.Identity != nil {
		return nil
	}
	g.audit.Warn("feed.access_denied",
		logpkg.Str("peer", c.Peer),
		logpkg.Str("environment", g.env.String()),
	)
	return &AuthorizationError{Peer: c.Peer}
}
