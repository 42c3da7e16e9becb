package telemetry

import (
	"math"
	"math/rand"
	"sync"

	"github.com/benbjohnson/clock"
)

// Source produces the next sample for a source id.
type Source interface {
	Next(sourceID string) (Sample, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(sourceID string) (Sample, error)

func (f SourceFunc) Next(sourceID string) (Sample, error) { return f(sourceID) }

// UniformSource draws values uniformly from [0, 100) and stamps them with
// the clock's wall time. Timestamps never go backwards: if the clock steps
// back, the last emitted timestamp is reused.
type UniformSource struct {
	clock clock.Clock

	mu     sync.Mutex
	rng    *rand.Rand
	lastMs int64
}

// NewUniformSource returns a source reading time from clk. A zero seed uses
// the process random source.
func NewUniformSource(clk clock.Clock, seed int64) *UniformSource {
	if clk == nil {
		clk = clock.New()
	}
	if seed == 0 {
		seed = rand.Int63()
	}
	return &UniformSource{clock: clk, rng: rand.New(rand.NewSource(seed))}
}

func (u *UniformSource) Next(string) (Sample, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	ms := u.clock.Now().UnixMilli()
	if ms < u.lastMs {
		ms = u.lastMs
	}
	u.lastMs = ms

	v := u.rng.Float64() * 100
	if v >= 100 {
		v = math.Nextafter(100, 0)
	}
	return Sample{TimestampMs: ms, Value: v}, nil
}
