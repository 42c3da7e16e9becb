package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ChameeraD/RealTimeDashboard/internal/telemetry"
)

// sseWriteTimeout bounds one event write to a slow client.
const sseWriteTimeout = 10 * time.Second

// dataPoint is the JSON form of a sample on the SSE stream.
type dataPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// sseSink writes samples as Server-Sent Events. Headers are sent with the
// first sample so that a rejected subscription can still answer with a
// plain HTTP status.
type sseSink struct {
	w       http.ResponseWriter
	started bool
}

func (s *sseSink) start() {
	if s.started {
		return
	}
	s.started = true
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	s.w.WriteHeader(http.StatusOK)
}

// Send writes one "data:" event and flushes it. A write stalled on the
// client is cut by the write deadline, or at once when ctx is cancelled.
func (s *sseSink) Send(ctx context.Context, sample telemetry.Sample) error {
	b, err := json.Marshal(dataPoint{Timestamp: sample.TimestampMs, Value: sample.Value})
	if err != nil {
		return err
	}
	rc := http.NewResponseController(s.w)
	_ = rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout))
	stop := context.AfterFunc(ctx, func() { _ = rc.SetWriteDeadline(time.Now()) })
	defer stop()
	s.start()
	return s.write("", b)
}

// sendError writes an "error" event on an already started stream.
func (s *sseSink) sendError(message string) error {
	b, _ := json.Marshal(map[string]string{"error": message})
	_ = http.NewResponseController(s.w).SetWriteDeadline(time.Now().Add(sseWriteTimeout))
	return s.write("error", b)
}

func (s *sseSink) write(event string, data []byte) error {
	if event != "" {
		if _, err := s.w.Write([]byte("event: " + event + "\n")); err != nil {
			return err
		}
	}
	if _, err := s.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := s.w.Write(data); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	if err := http.NewResponseController(s.w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
