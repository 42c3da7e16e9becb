package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// State is the lifecycle position of a Session.
type State int32

const (
	StateCreated State = iota
	StateActive
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Reason records why a session terminated.
type Reason string

const (
	ReasonCancelled Reason = "cancelled"
	ReasonInternal  Reason = "internal"
)

// DefaultProgressEvery is how many pushes pass between progress records.
const DefaultProgressEvery = 100

// SessionOptions carries everything a session needs. The cancellation
// signal is the context passed to Run.
type SessionOptions struct {
	ID           string
	Subscription Subscription
	Caller       Caller
	Source       Source
	Sink         Sink
	Observer     Observer
	// Clock defaults to the wall clock.
	Clock clock.Clock
	// Filter defaults to match-all.
	Filter Filter
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
	// OnSample, when set, is called after each successful push.
	OnSample func(Sample)
}

// Outcome summarises a terminated session.
type Outcome struct {
	Reason       Reason
	MessagesSent uint64
	StartedAt    time.Time
	EndedAt      time.Time
}

// Session streams samples for one subscription until cancellation or a
// fault. A session runs once; all loop state is owned by the goroutine
// calling Run.
type Session struct {
	opts     SessionOptions
	interval time.Duration
	log      Observer

	state atomic.Int32
	sent  atomic.Uint64
}

// NewSession checks the wiring and returns a session in StateCreated.
// The subscription is expected to have passed Validate already; the session
// itself accepts any non-negative interval.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Source == nil {
		return nil, errors.New("telemetry: session source is required")
	}
	if opts.Sink == nil {
		return nil, errors.New("telemetry: session sink is required")
	}
	if opts.Subscription.IntervalMs < 0 {
		return nil, fmt.Errorf("telemetry: negative interval %d", opts.Subscription.IntervalMs)
	}
	if opts.Observer == nil {
		opts.Observer = logpkg.NewNopLogger()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	s := &Session{
		opts:     opts,
		interval: opts.Subscription.Interval(),
	}
	s.log = withFields(opts.Observer,
		logpkg.Str("session_id", opts.ID),
		logpkg.Str("source_id", opts.Subscription.SourceID),
		logpkg.Str("peer", opts.Caller.Peer),
	)
	return s, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// MessagesSent returns the number of samples pushed so far.
func (s *Session) MessagesSent() uint64 { return s.sent.Load() }

// Run drives the session. It returns a nil error when ctx is cancelled and
// an *EmissionError when sample generation or delivery fails. The first
// sample is emitted without waiting.
func (s *Session) Run(ctx context.Context) (Outcome, error) {
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateActive)) {
		return Outcome{}, errors.New("telemetry: session already started")
	}
	out := Outcome{StartedAt: s.opts.Clock.Now()}
	s.log.Info("session.started",
		logpkg.Int("interval_ms", int(s.opts.Subscription.IntervalMs)),
		logpkg.Str("subject", s.opts.Caller.Subject()),
		logpkg.Bool("filtered", s.opts.Filter.Enabled()),
	)

	err := s.loop(ctx)

	s.state.Store(int32(StateTerminated))
	out.EndedAt = s.opts.Clock.Now()
	out.MessagesSent = s.sent.Load()
	if err != nil {
		out.Reason = ReasonInternal
		s.log.Error("session.failed",
			logpkg.Err(err),
			logpkg.Uint64("messages_sent", out.MessagesSent),
		)
		return out, err
	}
	out.Reason = ReasonCancelled
	s.log.Info("session.cancelled", logpkg.Uint64("messages_sent", out.MessagesSent))
	return out, nil
}

func (s *Session) loop(ctx context.Context) error {
	sourceID := s.opts.Subscription.SourceID
	every := uint64(s.opts.ProgressEvery)
	for {
		if ctx.Err() != nil {
			return nil
		}
		sample, err := s.opts.Source.Next(sourceID)
		if err != nil {
			return &EmissionError{Kind: GenerationFault, Err: err}
		}
		if s.opts.Filter.Match(sourceID, sample) {
			if err := s.opts.Sink.Send(ctx, sample); err != nil {
				// A push aborted by cancellation is a clean end.
				if ctx.Err() != nil {
					return nil
				}
				return &EmissionError{Kind: DeliveryFault, Err: err}
			}
			n := s.sent.Add(1)
			if s.opts.OnSample != nil {
				s.opts.OnSample(sample)
			}
			if n%every == 0 {
				s.log.Debug("session.progress", logpkg.Uint64("messages_sent", n))
			}
		}

		t := s.opts.Clock.Timer(s.interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil
		case <-t.C:
		}
	}
}

// withFields attaches fields when the observer supports it.
func withFields(o Observer, fields ...logpkg.Field) Observer {
	if l, ok := o.(interface {
		With(...logpkg.Field) logpkg.Logger
	}); ok {
		return l.With(fields...)
	}
	return o
}
