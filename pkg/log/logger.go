// Package log provides a structured logging system for dashboard services.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

// Level represents the severity level of a log message.
type Level int

// Log levels
const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a textual level (case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("log: unknown level %q", s)
	}
}

// Format selects the line encoding of log output.
type Format string

const (
	TextFormat   Format = "text"
	JSONFormat   Format = "json"
	LogfmtFormat Format = "logfmt"
)

// Component name field key.
const ComponentKey = "component"

// Logger defines the core logging interface for dashboard components.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// With returns a child logger that carries the provided fields.
	With(fields ...Field) Logger
	// WithComponent tags logs with a component name.
	WithComponent(component string) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// LoggerOption is a function that configures a logger.
type LoggerOption func(*options)

type options struct {
	level  Level
	format Format
	out    io.Writer
	caller bool
}

// WithLevel sets the minimum log level.
func WithLevel(level Level) LoggerOption {
	return func(o *options) { o.level = level }
}

// WithFormat sets the output encoding.
func WithFormat(f Format) LoggerOption {
	return func(o *options) { o.format = f }
}

// WithOutput sets the destination writer. Defaults to stderr.
func WithOutput(w io.Writer) LoggerOption {
	return func(o *options) { o.out = w }
}

// WithCaller enables caller reporting.
func WithCaller(enabled bool) LoggerOption {
	return func(o *options) { o.caller = enabled }
}

// charmLogger adapts a charmbracelet logger to the Logger facade. Children
// created via With share the level with their parent.
type charmLogger struct {
	inner *charmlog.Logger
	level *atomic.Int32
}

// NewLogger creates a new logger with the given options.
func NewLogger(opts ...LoggerOption) Logger {
	o := options{level: InfoLevel, format: TextFormat, out: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	inner := charmlog.NewWithOptions(o.out, charmlog.Options{
		Level:           toCharmLevel(o.level),
		ReportTimestamp: true,
		ReportCaller:    o.caller,
		CallerOffset:    1,
		Formatter:       toCharmFormatter(o.format),
	})
	lvl := &atomic.Int32{}
	lvl.Store(int32(o.level))
	return &charmLogger{inner: inner, level: lvl}
}

func (l *charmLogger) Debug(msg string, fields ...Field) {
	l.inner.Debug(msg, keyvals(fields)...)
}

func (l *charmLogger) Info(msg string, fields ...Field) {
	l.inner.Info(msg, keyvals(fields)...)
}

func (l *charmLogger) Warn(msg string, fields ...Field) {
	l.inner.Warn(msg, keyvals(fields)...)
}

func (l *charmLogger) Error(msg string, fields ...Field) {
	l.inner.Error(msg, keyvals(fields)...)
}

// Fatal logs and exits the process with status 1.
func (l *charmLogger) Fatal(msg string, fields ...Field) {
	l.inner.Fatal(msg, keyvals(fields)...)
}

func (l *charmLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &charmLogger{inner: l.inner.With(keyvals(fields)...), level: l.level}
}

func (l *charmLogger) WithComponent(component string) Logger {
	return l.With(Component(component))
}

// SetLevel changes the minimum level. Loggers derived with With before the
// call keep their own backend level, so set levels before deriving.
func (l *charmLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
	l.inner.SetLevel(toCharmLevel(level))
}

func (l *charmLogger) GetLevel() Level { return Level(l.level.Load()) }

func toCharmLevel(level Level) charmlog.Level {
	switch level {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case FatalLevel:
		return charmlog.FatalLevel
	default:
		return charmlog.InfoLevel
	}
}

func toCharmFormatter(f Format) charmlog.Formatter {
	switch f {
	case JSONFormat:
		return charmlog.JSONFormatter
	case LogfmtFormat:
		return charmlog.LogfmtFormatter
	default:
		return charmlog.TextFormatter
	}
}

// nopLogger discards everything.
type nopLogger struct{}

// NewNopLogger returns a Logger that drops all records.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field)        {}
func (nopLogger) Info(string, ...Field)         {}
func (nopLogger) Warn(string, ...Field)         {}
func (nopLogger) Error(string, ...Field)        {}
func (nopLogger) Fatal(string, ...Field)        {}
func (n nopLogger) With(...Field) Logger        { return n }
func (n nopLogger) WithComponent(string) Logger { return n }
func (nopLogger) SetLevel(Level)                {}
func (nopLogger) GetLevel() Level               { return FatalLevel }
