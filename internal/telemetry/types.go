package telemetry

import (
	"context"
	"time"
)

// Subscription is a client's request for samples from one source.
type Subscription struct {
	SourceID   string
	IntervalMs int32
	// Filter is an optional CEL predicate; see CompileFilter.
	Filter string
}

// Interval returns the emission period as a time.Duration.
func (s Subscription) Interval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// Sample is one observation pushed to a subscriber.
type Sample struct {
	// TimestampMs is Unix epoch milliseconds at generation time.
	TimestampMs int64
	Value       float64
}

// Limits bounds the accepted emission interval, inclusive on both ends.
type Limits struct {
	MinIntervalMs int32
	MaxIntervalMs int32
}

// DefaultLimits returns the 100ms..10s window.
func DefaultLimits() Limits {
	return Limits{MinIntervalMs: 100, MaxIntervalMs: 10000}
}

// Sink receives samples for one session. Send must return once ctx is done
// even if the underlying transport is blocked.
type Sink interface {
	Send(ctx context.Context, s Sample) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s Sample) error

func (f SinkFunc) Send(ctx context.Context, s Sample) error { return f(ctx, s) }
