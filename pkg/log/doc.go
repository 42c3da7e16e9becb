// Package log provides the dashboard's structured logging facade.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by charmbracelet/log, which
// supplies the text, JSON and logfmt encoders.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat(log.TextFormat),
//	)
//	l = l.With(log.Component("feed"), log.Str("source_id", "sensor-1"))
//	l.Info("session started", log.Int("interval_ms", 100))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config.
//
// # Interop
//
// Slog exposes a *slog.Logger view, ToStdLogger a *log.Logger view, and
// RedirectStdLog points both process-wide defaults at a Logger.
package log
