package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

// chanSink forwards every pushed sample to a buffered channel.
type chanSink struct {
	ch chan Sample
}

func newChanSink() *chanSink { return &chanSink{ch: make(chan Sample, 1024)} }

func (c *chanSink) Send(ctx context.Context, s Sample) error {
	select {
	case c.ch <- s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type runResult struct {
	out Outcome
	err error
}

func startSession(t *testing.T, ctx context.Context, opts SessionOptions) (*Session, <-chan runResult) {
	t.Helper()
	sess, err := NewSession(opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	done := make(chan runResult, 1)
	go func() {
		out, err := sess.Run(ctx)
		done <- runResult{out: out, err: err}
	}()
	return sess, done
}

func waitResult(t *testing.T, done <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not terminate")
		return runResult{}
	}
}

func TestSessionFirstSampleIsImmediate(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.UnixMilli(1_700_000_000_000))
	sink := newChanSink()
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	sess, done := startSession(t, ctx, SessionOptions{
		ID:           "s1",
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 1000},
		Source:       NewUniformSource(mock, 7),
		Sink:         sink,
		Observer:     rec,
		Clock:        mock,
	})

	select {
	case s := <-sink.ch:
		if s.TimestampMs != 1_700_000_000_000 {
			t.Fatalf("timestamp=%d", s.TimestampMs)
		}
	case <-time.After(time.Second):
		t.Fatalf("first sample not emitted before the clock advanced")
	}
	// Without advancing the clock no second sample may arrive.
	select {
	case s := <-sink.ch:
		t.Fatalf("unexpected second sample %+v", s)
	case <-time.After(50 * time.Millisecond):
	}
	if sess.State() != StateActive {
		t.Fatalf("state=%v want active", sess.State())
	}

	cancel()
	r := waitResult(t, done)
	if r.err != nil {
		t.Fatalf("cancellation must end cleanly, got %v", r.err)
	}
	if r.out.Reason != ReasonCancelled || r.out.MessagesSent != 1 {
		t.Fatalf("outcome=%+v", r.out)
	}
	if sess.State() != StateTerminated {
		t.Fatalf("state=%v want terminated", sess.State())
	}
	logs := rec.find("session.cancelled")
	if len(logs) != 1 || logs[0].fields["messages_sent"] != uint64(1) {
		t.Fatalf("cancel log=%+v", logs)
	}
}

func TestSessionPacesOnClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.UnixMilli(1_700_000_000_000))
	sink := newChanSink()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, done := startSession(t, ctx, SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 100},
		Source:       NewUniformSource(mock, 7),
		Sink:         sink,
		Clock:        mock,
	})

	var got []Sample
	deadline := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case s := <-sink.ch:
			got = append(got, s)
			continue
		case <-deadline:
			t.Fatalf("received %d samples", len(got))
		default:
		}
		mock.Add(100 * time.Millisecond)
	}
	for i := 1; i < len(got); i++ {
		if got[i].TimestampMs <= got[i-1].TimestampMs {
			t.Fatalf("timestamps not increasing: %+v", got)
		}
	}
	cancel()
	if r := waitResult(t, done); r.err != nil {
		t.Fatalf("run: %v", r.err)
	}
}

func TestSessionEndToEndCadence(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}
	sink := newChanSink()
	ctx, cancel := context.WithTimeout(context.Background(), 550*time.Millisecond)
	defer cancel()

	_, done := startSession(t, ctx, SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 100},
		Source:       NewUniformSource(nil, 0),
		Sink:         sink,
	})
	r := waitResult(t, done)
	if r.err != nil {
		t.Fatalf("run: %v", r.err)
	}
	close(sink.ch)
	var samples []Sample
	for s := range sink.ch {
		samples = append(samples, s)
	}
	// About five samples in 550ms, give or take one for scheduling.
	if len(samples) < 4 || len(samples) > 6 {
		t.Fatalf("got %d samples", len(samples))
	}
	if uint64(len(samples)) != r.out.MessagesSent {
		t.Fatalf("messages_sent=%d pushed=%d", r.out.MessagesSent, len(samples))
	}
	for i, s := range samples {
		if s.Value < 0 || s.Value >= 100 {
			t.Fatalf("value out of range: %v", s.Value)
		}
		if i > 0 && s.TimestampMs < samples[i-1].TimestampMs {
			t.Fatalf("timestamps decreased at %d", i)
		}
	}
}

func TestSessionDeliveryFault(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("broken pipe")
	calls := 0
	sink := SinkFunc(func(context.Context, Sample) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	sess, err := NewSession(SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1"},
		Source:       NewUniformSource(nil, 1),
		Sink:         sink,
		Observer:     rec,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := sess.Run(context.Background())
	var ee *EmissionError
	if !errors.As(err, &ee) || ee.Kind != DeliveryFault || !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if out.Reason != ReasonInternal || out.MessagesSent != 2 {
		t.Fatalf("outcome=%+v", out)
	}
	if logs := rec.find("session.failed"); len(logs) != 1 || logs[0].level != "error" {
		t.Fatalf("failure log=%+v", logs)
	}
}

func TestSessionGenerationFault(t *testing.T) {
	src := SourceFunc(func(string) (Sample, error) { return Sample{}, errors.New("sensor offline") })
	sess, _ := NewSession(SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 100},
		Source:       src,
		Sink:         newChanSink(),
	})
	out, err := sess.Run(context.Background())
	var ee *EmissionError
	if !errors.As(err, &ee) || ee.Kind != GenerationFault {
		t.Fatalf("err=%v", err)
	}
	if out.MessagesSent != 0 {
		t.Fatalf("messages_sent=%d", out.MessagesSent)
	}
}

func TestSessionCancelDuringBlockedPush(t *testing.T) {
	entered := make(chan struct{})
	var once sync.Once
	sink := SinkFunc(func(ctx context.Context, _ Sample) error {
		once.Do(func() { close(entered) })
		<-ctx.Done()
		return errors.New("stream closed")
	})
	ctx, cancel := context.WithCancel(context.Background())
	_, done := startSession(t, ctx, SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 100},
		Source:       NewUniformSource(nil, 1),
		Sink:         sink,
	})
	<-entered
	cancel()
	r := waitResult(t, done)
	if r.err != nil {
		t.Fatalf("push aborted by cancel must be clean, got %v", r.err)
	}
	if r.out.MessagesSent != 0 {
		t.Fatalf("messages_sent=%d", r.out.MessagesSent)
	}
}

func TestSessionProgressRecords(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := 0
	sink := SinkFunc(func(context.Context, Sample) error {
		n++
		if n == 250 {
			cancel()
		}
		return nil
	})
	sess, _ := NewSession(SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 0},
		Source:       NewUniformSource(nil, 1),
		Sink:         sink,
		Observer:     rec,
	})
	out, err := sess.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.MessagesSent != 250 {
		t.Fatalf("messages_sent=%d", out.MessagesSent)
	}
	progress := rec.find("session.progress")
	if len(progress) != 2 {
		t.Fatalf("progress records=%d", len(progress))
	}
	if progress[0].level != "debug" || progress[0].fields["messages_sent"] != uint64(100) || progress[1].fields["messages_sent"] != uint64(200) {
		t.Fatalf("progress=%+v", progress)
	}
}

func TestSessionFilterSkipsSamples(t *testing.T) {
	values := []float64{10, 90, 20, 80}
	i := 0
	src := SourceFunc(func(string) (Sample, error) {
		v := values[i%len(values)]
		i++
		return Sample{TimestampMs: int64(i), Value: v}, nil
	})
	filter, err := CompileFilter("value > 50")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var pushed []float64
	sink := SinkFunc(func(_ context.Context, s Sample) error {
		pushed = append(pushed, s.Value)
		if len(pushed) == 2 {
			cancel()
		}
		return nil
	})
	sess, _ := NewSession(SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1"},
		Source:       src,
		Sink:         sink,
		Filter:       filter,
	})
	out, err := sess.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.MessagesSent != 2 || pushed[0] != 90 || pushed[1] != 80 {
		t.Fatalf("pushed=%v sent=%d", pushed, out.MessagesSent)
	}
}

func TestSessionRunsOnce(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess, _ := NewSession(SessionOptions{
		Subscription: Subscription{SourceID: "sensor-1", IntervalMs: 100},
		Source:       NewUniformSource(nil, 1),
		Sink:         newChanSink(),
	})
	if _, err := sess.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := sess.Run(ctx); err == nil {
		t.Fatalf("second run should fail")
	}
}

func TestNewSessionRequiresWiring(t *testing.T) {
	if _, err := NewSession(SessionOptions{Sink: newChanSink()}); err == nil {
		t.Fatalf("missing source should fail")
	}
	if _, err := NewSession(SessionOptions{Source: NewUniformSource(nil, 1)}); err == nil {
		t.Fatalf("missing sink should fail")
	}
}
