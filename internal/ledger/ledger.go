package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	pebblestore "github.com/ChameeraD/RealTimeDashboard/internal/storage/pebble"
	"github.com/ChameeraD/RealTimeDashboard/pkg/id"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// ErrNotFound is returned by Get for unknown session ids.
var ErrNotFound = errors.New("ledger: session not found")

// Entry is the stored summary of one terminated session.
type Entry struct {
	ID           id.ID     `json:"id"`
	SourceID     string    `json:"source_id"`
	IntervalMs   int32     `json:"interval_ms"`
	Filter       string    `json:"filter,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Peer         string    `json:"peer,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	MessagesSent uint64    `json:"messages_sent"`
	Reason       string    `json:"reason"`
}

// ListOptions narrows List.
type ListOptions struct {
	// Limit caps the result; 0 means 100.
	Limit int
	// SourceID keeps only sessions for this source when set.
	SourceID string
}

// Ledger records session summaries.
type Ledger struct {
	db    *pebblestore.DB
	clock clock.Clock
}

// New returns a ledger over db. clk drives retention; nil means wall clock.
func New(db *pebblestore.DB, clk clock.Clock) *Ledger {
	if clk == nil {
		clk = clock.New()
	}
	return &Ledger{db: db, clock: clk}
}

// Record stores e under e.ID, replacing any previous entry for that id.
func (l *Ledger) Record(ctx context.Context, e Entry) error {
	if e.ID == id.Zero {
		return errors.New("ledger: entry id is required")
	}
	val, err := encodeRecord(header{
		version:      recordVersion,
		startedMs:    e.StartedAt.UnixMilli(),
		endedMs:      e.EndedAt.UnixMilli(),
		messagesSent: e.MessagesSent,
	}, payload{
		SourceID:   e.SourceID,
		IntervalMs: e.IntervalMs,
		Filter:     e.Filter,
		Subject:    e.Subject,
		Peer:       e.Peer,
		Reason:     e.Reason,
	})
	if err != nil {
		return fmt.Errorf("ledger: encode: %w", err)
	}
	b := l.db.NewBatch()
	defer b.Close()
	if err := b.Set(keySession(e.ID), val, nil); err != nil {
		return err
	}
	return l.db.CommitBatch(ctx, b)
}

// Get loads one entry.
func (l *Ledger) Get(_ context.Context, sid id.ID) (Entry, error) {
	raw, err := l.db.Get(keySession(sid))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(sid, raw)
}

// List returns entries newest first.
func (l *Ledger) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	var (
		out     []Entry
		scanErr error
	)
	err := l.db.ScanPrefix(ctx, sessPrefix, true, func(k, v []byte) bool {
		sid, ok := idFromKey(k)
		if !ok {
			return true
		}
		e, err := decodeEntry(sid, v)
		if err != nil {
			scanErr = err
			return false
		}
		if opts.SourceID != "" && e.SourceID != opts.SourceID {
			return true
		}
		out = append(out, e)
		return len(out) < limit
	})
	if err != nil {
		return nil, err
	}
	return out, scanErr
}

// Trim deletes entries for sessions started more than retention ago.
func (l *Ledger) Trim(_ context.Context, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}
	cutoff := l.clock.Now().Add(-retention).UnixMilli()
	return l.db.DeleteRange(sessPrefix, keyBefore(cutoff))
}

// RunRetention trims every interval until ctx is done.
func (l *Ledger) RunRetention(ctx context.Context, interval, retention time.Duration, logger logpkg.Logger) {
	if retention <= 0 || interval <= 0 {
		return
	}
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	t := l.clock.Ticker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := l.Trim(ctx, retention); err != nil {
				logger.Warn("ledger.trim_failed", logpkg.Err(err))
			}
		}
	}
}

func decodeEntry(sid id.ID, raw []byte) (Entry, error) {
	h, p, err := decodeRecord(raw)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s", err, sid)
	}
	return Entry{
		ID:           sid,
		SourceID:     p.SourceID,
		IntervalMs:   p.IntervalMs,
		Filter:       p.Filter,
		Subject:      p.Subject,
		Peer:         p.Peer,
		StartedAt:    time.UnixMilli(h.startedMs),
		EndedAt:      time.UnixMilli(h.endedMs),
		MessagesSent: h.messagesSent,
		Reason:       p.Reason,
	}, nil
}
