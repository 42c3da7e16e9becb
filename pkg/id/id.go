package id

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// ID is a 128-bit, lexicographically sortable identifier encoded as 16 bytes
// big-endian: [8 bytes ms_timestamp][8 bytes sequence].
type ID [16]byte

// Zero is the empty ID.
var Zero ID

// Bytes returns a copy of the raw 16-byte representation.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// String returns the 32-character lowercase hex form.
func (i ID) String() string { return hex.EncodeToString(i[:]) }

// Millis returns the embedded Unix millisecond timestamp.
func (i ID) Millis() int64 { return int64(binary.BigEndian.Uint64(i[0:8])) }

// Time returns the embedded timestamp as a time.Time.
func (i ID) Time() time.Time { return time.UnixMilli(i.Millis()) }

// Compare returns -1, 0, 1 based on lexical comparison.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < 16; idx++ {
		if i[idx] < other[idx] {
			return -1
		}
		if i[idx] > other[idx] {
			return 1
		}
	}
	return 0
}

// MarshalText encodes the ID as hex, so it appears as a string in JSON.
func (i ID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText decodes the hex form.
func (i *ID) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Parse decodes the hex form produced by String.
func Parse(s string) (ID, error) {
	var out ID
	if len(s) != 32 {
		return out, fmt.Errorf("id: want 32 hex chars, got %d", len(s))
	}
	if _, err := hex.Decode(out[:], []byte(s)); err != nil {
		return out, fmt.Errorf("id: %w", err)
	}
	return out, nil
}

// FromBytes copies a 16-byte slice into an ID.
func FromBytes(b []byte) (ID, error) {
	var out ID
	if len(b) != 16 {
		return out, fmt.Errorf("id: want 16 bytes, got %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Generator produces monotonically increasing IDs per process.
type Generator struct {
	clock clock.Clock

	mu       sync.Mutex
	lastMs   int64
	sequence uint64
}

// NewGenerator creates a Generator reading time from clk; nil means the
// wall clock.
func NewGenerator(clk clock.Clock) *Generator {
	if clk == nil {
		clk = clock.New()
	}
	return &Generator{clock: clk}
}

// Next returns a new ID. If the clock goes backwards the last millisecond is
// reused with a higher sequence. If the sequence would overflow within one
// millisecond, Next waits for the clock to move on.
func (g *Generator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms < g.lastMs {
		ms = g.lastMs
	}

	switch {
	case ms != g.lastMs:
		g.sequence = 0
	case g.sequence == math.MaxUint64:
		for ms <= g.lastMs {
			g.clock.Sleep(time.Millisecond / 8)
			ms = g.clock.Now().UnixMilli()
		}
		g.sequence = 0
	default:
		g.sequence++
	}

	g.lastMs = ms
	return makeID(ms, g.sequence)
}

func makeID(ms int64, seq uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:16], seq)
	return id
}
