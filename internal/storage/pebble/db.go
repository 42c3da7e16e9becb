package pebblestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"

	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// ErrNotFound is returned by Get for absent keys.
var ErrNotFound = pebble.ErrNotFound

// FsyncMode defines durability behavior for write operations.
type FsyncMode int

const (
	FsyncModeUnspecified FsyncMode = iota
	// FsyncModeAlways syncs the WAL on every commit.
	FsyncModeAlways
	// FsyncModeInterval lets Pebble group WAL syncs within FsyncInterval.
	FsyncModeInterval
	// FsyncModeNever leaves syncing to Pebble.
	FsyncModeNever
)

// ParseFsyncMode maps "always", "interval" and "never" to a mode.
func ParseFsyncMode(s string) (FsyncMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "interval":
		return FsyncModeInterval, nil
	case "always":
		return FsyncModeAlways, nil
	case "never":
		return FsyncModeNever, nil
	default:
		return FsyncModeUnspecified, fmt.Errorf("pebble: unknown fsync mode %q", s)
	}
}

// Options configures the store.
type Options struct {
	DataDir       string
	Fsync         FsyncMode
	FsyncInterval time.Duration
	// PebbleOptions allows advanced tuning. Nil uses Pebble defaults.
	PebbleOptions *pebble.Options
	// Metrics observes operation latency and size. Optional.
	Metrics MetricsHook
	// Logger receives Pebble's internal log lines. Optional.
	Logger logpkg.Logger
}

// MetricsHook observes storage operations.
type MetricsHook interface {
	ObserveWrite(elapsed time.Duration, bytes int)
	ObserveRead(elapsed time.Duration, bytes int)
	ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int)
}

// NoopMetrics discards observations.
type NoopMetrics struct{}

func (NoopMetrics) ObserveWrite(time.Duration, int)            {}
func (NoopMetrics) ObserveRead(time.Duration, int)             {}
func (NoopMetrics) ObserveBatchCommit(time.Duration, int, int) {}

// DB wraps a Pebble database with an fsync policy and metrics.
type DB struct {
	inner     *pebble.DB
	writeOpts *pebble.WriteOptions
	metrics   MetricsHook
}

// Open creates or opens the database at opts.DataDir.
func Open(opts Options) (*DB, error) {
	if opts.DataDir == "" {
		return nil, errors.New("pebble: Options.DataDir is required")
	}
	po := opts.PebbleOptions
	if po == nil {
		po = &pebble.Options{}
	}
	switch opts.Fsync {
	case FsyncModeAlways, FsyncModeNever:
	default:
		interval := opts.FsyncInterval
		if interval <= 0 {
			interval = 5 * time.Millisecond
		}
		po.WALMinSyncInterval = func() time.Duration { return interval }
	}
	if opts.Logger != nil {
		po.Logger = pebbleLogger{l: opts.Logger}
	}

	inner, err := pebble.Open(opts.DataDir, po)
	if err != nil {
		return nil, fmt.Errorf("pebble: open %s: %w", opts.DataDir, err)
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	wo := pebble.NoSync
	if opts.Fsync == FsyncModeAlways {
		wo = pebble.Sync
	}
	return &DB{inner: inner, writeOpts: wo, metrics: metrics}, nil
}

// Close closes the database. Safe on a nil DB.
func (db *DB) Close() error {
	if db == nil || db.inner == nil {
		return nil
	}
	return db.inner.Close()
}

// NewBatch creates a batch for atomic multi-key updates.
func (db *DB) NewBatch() *pebble.Batch { return db.inner.NewBatch() }

// CommitBatch commits b with the configured fsync policy. The caller still
// closes b.
func (db *DB) CommitBatch(ctx context.Context, b *pebble.Batch) error {
	if b == nil {
		return errors.New("pebble: nil batch")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	size := b.Len()
	ops := int(b.Count())
	err := b.Commit(db.writeOpts)
	db.metrics.ObserveBatchCommit(time.Since(start), ops, size)
	return err
}

// Set writes one key.
func (db *DB) Set(key, value []byte) error {
	start := time.Now()
	if err := db.inner.Set(key, value, db.writeOpts); err != nil {
		return err
	}
	db.metrics.ObserveWrite(time.Since(start), len(key)+len(value))
	return nil
}

// Delete removes one key.
func (db *DB) Delete(key []byte) error {
	start := time.Now()
	if err := db.inner.Delete(key, db.writeOpts); err != nil {
		return err
	}
	db.metrics.ObserveWrite(time.Since(start), len(key))
	return nil
}

// DeleteRange removes keys in [start, end).
func (db *DB) DeleteRange(start, end []byte) error {
	t := time.Now()
	if err := db.inner.DeleteRange(start, end, db.writeOpts); err != nil {
		return err
	}
	db.metrics.ObserveWrite(time.Since(t), len(start)+len(end))
	return nil
}

// Get returns a copy of the value for key, or ErrNotFound.
func (db *DB) Get(key []byte) ([]byte, error) {
	start := time.Now()
	val, closer, err := db.inner.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	buf := bytes.Clone(val)
	db.metrics.ObserveRead(time.Since(start), len(buf))
	return buf, nil
}

// NewIter creates a raw iterator. The caller must Close it.
func (db *DB) NewIter(opts *pebble.IterOptions) (*pebble.Iterator, error) {
	return db.inner.NewIter(opts)
}

// ScanPrefix visits keys under prefix in order (or reverse order) until fn
// returns false or ctx is done. Key and value are only valid during the call.
func (db *DB) ScanPrefix(ctx context.Context, prefix []byte, reverse bool, fn func(key, value []byte) bool) error {
	it, err := db.inner.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	defer it.Close()

	start := time.Now()
	read := 0
	valid := it.First()
	step := it.Next
	if reverse {
		valid = it.Last()
		step = it.Prev
	}
	for ; valid; valid = step() {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := it.Value()
		read += len(v)
		if !fn(it.Key(), v) {
			break
		}
	}
	db.metrics.ObserveRead(time.Since(start), read)
	return it.Error()
}

// CompactRange requests compaction of [start, end).
func (db *DB) CompactRange(start, end []byte) error {
	return db.inner.Compact(start, end, true)
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

type pebbleLogger struct{ l logpkg.Logger }

func (p pebbleLogger) Infof(format string, args ...any) {
	p.l.Debug(fmt.Sprintf(format, args...), logpkg.Component("pebble"))
}

func (p pebbleLogger) Errorf(format string, args ...any) {
	p.l.Error(fmt.Sprintf(format, args...), logpkg.Component("pebble"))
}

func (p pebbleLogger) Fatalf(format string, args ...any) {
	p.l.Fatal(fmt.Sprintf(format, args...), logpkg.Component("pebble"))
}
