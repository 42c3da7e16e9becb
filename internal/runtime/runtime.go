package runtime

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	cfgpkg "github.com/ChameeraD/RealTimeDashboard/internal/config"
	"github.com/ChameeraD/RealTimeDashboard/internal/ledger"
	pebblestore "github.com/ChameeraD/RealTimeDashboard/internal/storage/pebble"
	logpkg "github.com/ChameeraD/RealTimeDashboard/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// Clock defaults to the wall clock.
	Clock   clock.Clock
	Logger  logpkg.Logger
	Metrics pebblestore.MetricsHook
}

// Runtime wires storage, config and the session ledger for one node. When
// history is disabled no database is opened and Ledger returns nil.
type Runtime struct {
	db     *pebblestore.DB
	ledger *ledger.Ledger
	config cfgpkg.Config
	clock  clock.Clock
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	rt := &Runtime{config: opts.Config, clock: opts.Clock}
	if !opts.Config.History.Enabled {
		return rt, nil
	}
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Metrics:       opts.Metrics,
		Logger:        opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	rt.db = db
	rt.ledger = ledger.New(db, opts.Clock)
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth verifies the store answers reads. Without history there is
// nothing to check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if !r.config.History.Enabled {
		return nil
	}
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Ledger returns the session ledger, or nil when history is disabled.
func (r *Runtime) Ledger() *ledger.Ledger { return r.ledger }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Clock returns the clock shared by sessions and retention.
func (r *Runtime) Clock() clock.Clock { return r.clock }
