package telemetry

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestUniformSourceRange(t *testing.T) {
	src := NewUniformSource(clock.New(), 42)
	for i := 0; i < 10000; i++ {
		s, err := src.Next("sensor-1")
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if s.Value < 0 || s.Value >= 100 {
			t.Fatalf("value out of range: %v", s.Value)
		}
	}
}

func TestUniformSourceTimestampsNeverGoBack(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.UnixMilli(1_700_000_000_000))
	src := NewUniformSource(mock, 1)

	first, _ := src.Next("s")
	if first.TimestampMs != 1_700_000_000_000 {
		t.Fatalf("timestamp=%d", first.TimestampMs)
	}
	mock.Set(time.UnixMilli(1_699_999_999_000))
	second, _ := src.Next("s")
	if second.TimestampMs != first.TimestampMs {
		t.Fatalf("timestamp went backwards: %d -> %d", first.TimestampMs, second.TimestampMs)
	}
	mock.Set(time.UnixMilli(1_700_000_000_500))
	third, _ := src.Next("s")
	if third.TimestampMs != 1_700_000_000_500 {
		t.Fatalf("timestamp=%d", third.TimestampMs)
	}
}
