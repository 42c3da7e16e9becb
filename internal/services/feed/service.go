package feedsvc

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/ChameeraD/RealTimeDashboard/internal/ledger"
	"github.com/ChameeraD/RealTimeDashboard/internal/metrics"
	"github.com/ChameeraD/RealTimeDashboard/internal/mirror"
	"github.com/ChameeraD/RealTimeDashboard/internal/runtime"
	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
	"github.com/ChameeraD/RealTimeDashboard/pkg/id"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Mirror receives a copy of every pushed sample. Publish runs inside the
// emission loop and must not block; run.go wires a *mirror.Queue.
type Mirror interface {
	Publish(ctx context.Context, msg mirror.Message) error
}

// Options carries the optional collaborators of a Service.
type Options struct {
	Logger  logpkg.Logger
	Metrics *metrics.Metrics
	Mirror  Mirror
	// Source defaults to a uniform [0, 100) generator on the runtime clock.
	Source telemetry.Source
}

// SubscribeOptions describes the calling transport.
type SubscribeOptions struct {
	// Transport labels metrics, e.g. "grpc" or "sse".
	Transport string
}

// Service runs subscriptions for every transport.
type Service struct {
	rt      *runtime.Runtime
	logger  logpkg.Logger
	gate    *telemetry.Gate
	limits  telemetry.Limits
	every   int
	source  telemetry.Source
	ids     *id.Generator
	metrics *metrics.Metrics
	mirror  Mirror

	// activeSubs counts running sessions per source id.
	subsMu     sync.Mutex
	activeSubs map[string]int
}

// New returns a Service reading environment and limits from rt's config.
func New(rt *runtime.Runtime, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger()
	}
	logger = logger.With(logpkg.Component("feed"))
	cfg := rt.Config()
	src := opts.Source
	if src == nil {
		src = telemetry.NewUniformSource(rt.Clock(), 0)
	}
	return &Service{
		rt:         rt,
		logger:     logger,
		gate:       telemetry.NewGate(cfg.EnvironmentMode(), logger),
		limits:     cfg.Limits(),
		every:      cfg.ProgressEvery,
		source:     src,
		ids:        id.NewGenerator(rt.Clock()),
		metrics:    opts.Metrics,
		mirror:     opts.Mirror,
		activeSubs: map[string]int{},
	}
}

// Environment returns the access policy in force.
func (s *Service) Environment() telemetry.Environment { return s.gate.Environment() }

// Limits returns the accepted interval range.
func (s *Service) Limits() telemetry.Limits { return s.limits }

// Subscribe validates sub, authorizes caller and streams samples into sink
// until ctx is cancelled. It returns nil on a clean end and *Error otherwise.
func (s *Service) Subscribe(ctx context.Context, caller telemetry.Caller, sub telemetry.Subscription, opts SubscribeOptions, sink telemetry.Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("feed.panic",
				logpkg.F("panic", r),
				logpkg.Str("stack", string(debug.Stack())),
				logpkg.Str("source_id", sub.SourceID),
			)
			err = &Error{Category: Internal, Message: genericInternal}
		}
	}()

	if err := telemetry.Validate(sub, s.limits); err != nil {
		s.metrics.Rejected(metrics.OutcomeInvalidArgument)
		s.logger.Debug("feed.rejected", logpkg.Err(err), logpkg.Str("peer", caller.Peer))
		return classify(err)
	}
	if err := s.gate.Authorize(caller); err != nil {
		s.metrics.Rejected(metrics.OutcomePermissionDenied)
		return classify(err)
	}
	filter, err := telemetry.CompileFilter(sub.Filter)
	if err != nil {
		s.metrics.Rejected(metrics.OutcomeInvalidArgument)
		s.logger.Debug("feed.rejected", logpkg.Err(err), logpkg.Str("peer", caller.Peer))
		return classify(err)
	}

	transport := opts.Transport
	if transport == "" {
		transport = "unknown"
	}
	sid := s.ids.Next()
	sess, err := telemetry.NewSession(telemetry.SessionOptions{
		ID:            sid.String(),
		Subscription:  sub,
		Caller:        caller,
		Source:        s.source,
		Sink:          sink,
		Observer:      s.logger,
		Clock:         s.rt.Clock(),
		Filter:        filter,
		ProgressEvery: s.every,
		OnSample:      s.onSample(ctx, transport, sub.SourceID, sid.String()),
	})
	if err != nil {
		return classify(fmt.Errorf("feed: build session: %w", err))
	}

	s.incSub(sub.SourceID)
	s.metrics.SessionStarted(transport)
	var out telemetry.Outcome
	outcome := metrics.OutcomeInternal
	defer func() {
		s.decSub(sub.SourceID)
		s.metrics.SessionEnded(transport, outcome, out.EndedAt.Sub(out.StartedAt))
	}()

	out, runErr := sess.Run(ctx)
	if runErr == nil {
		outcome = metrics.OutcomeCancelled
	}
	s.record(ctx, sid, sub, caller, out)
	return classify(runErr)
}

func (s *Service) onSample(ctx context.Context, transport, sourceID, sessionID string) func(telemetry.Sample) {
	return func(sample telemetry.Sample) {
		s.metrics.SampleSent(transport)
		if s.mirror == nil {
			return
		}
		if err := s.mirror.Publish(ctx, mirror.FromSample(sourceID, sessionID, sample)); err != nil && ctx.Err() == nil {
			s.metrics.MirrorFailed()
			s.logger.Warn("feed.mirror_failed", logpkg.Err(err), logpkg.Str("source_id", sourceID))
		}
	}
}

// record writes the session summary. ctx is usually cancelled by now, so the
// write runs on a detached context with its own deadline.
func (s *Service) record(ctx context.Context, sid id.ID, sub telemetry.Subscription, caller telemetry.Caller, out telemetry.Outcome) {
	l := s.rt.Ledger()
	if l == nil {
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	err := l.Record(wctx, ledger.Entry{
		ID:           sid,
		SourceID:     sub.SourceID,
		IntervalMs:   sub.IntervalMs,
		Filter:       sub.Filter,
		Subject:      caller.Subject(),
		Peer:         caller.Peer,
		StartedAt:    out.StartedAt,
		EndedAt:      out.EndedAt,
		MessagesSent: out.MessagesSent,
		Reason:       string(out.Reason),
	})
	if err != nil {
		s.logger.Warn("feed.ledger_failed", logpkg.Err(err), logpkg.Str("session_id", sid.String()))
	}
}

// Sessions lists recorded sessions newest first. It returns an empty slice
// when history is disabled.
func (s *Service) Sessions(ctx context.Context, opts ledger.ListOptions) ([]ledger.Entry, error) {
	l := s.rt.Ledger()
	if l == nil {
		return []ledger.Entry{}, nil
	}
	return l.List(ctx, opts)
}

// ActiveSessions returns the number of running sessions.
func (s *Service) ActiveSessions() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	n := 0
	for _, v := range s.activeSubs {
		n += v
	}
	return n
}

// ActiveSessionsFor returns the number of running sessions for sourceID.
func (s *Service) ActiveSessionsFor(sourceID string) int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return s.activeSubs[sourceID]
}

// ActiveSources returns the source ids with at least one running session.
func (s *Service) ActiveSources() []string {
	s.subsMu.Lock()
	out := make([]string, 0, len(s.activeSubs))
	for k := range s.activeSubs {
		out = append(out, k)
	}
	s.subsMu.Unlock()
	sort.Strings(out)
	return out
}

func (s *Service) incSub(key string) {
	s.subsMu.Lock()
	s.activeSubs[key] = s.activeSubs[key] + 1
	s.subsMu.Unlock()
}

func (s *Service) decSub(key string) {
	s.subsMu.Lock()
	if v := s.activeSubs[key]; v > 1 {
		s.activeSubs[key] = v - 1
	} else {
		delete(s.activeSubs, key)
	}
	s.subsMu.Unlock()
}
