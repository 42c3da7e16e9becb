package log

import (
	stdlog "log"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// Slog exposes the logger as a *slog.Logger so libraries that log through
// slog land in the same output. Loggers not created by NewLogger fall back to
// slog.Default().
func Slog(l Logger) *slog.Logger {
	if cl, ok := l.(*charmLogger); ok {
		return slog.New(cl.inner)
	}
	return slog.Default()
}

// ToStdLogger returns a *log.Logger that writes through l at the given level.
func ToStdLogger(l Logger, level Level) *stdlog.Logger {
	if cl, ok := l.(*charmLogger); ok {
		return cl.inner.StandardLog(charmlog.StandardLogOptions{ForceLevel: toCharmLevel(level)})
	}
	return stdlog.New(nopWriter{}, "", 0)
}

// RedirectStdLog routes the standard library's global logger and the slog
// default through l. slog.SetDefault also rewires the log package, so stdlib
// records arrive at Info.
func RedirectStdLog(l Logger) {
	if cl, ok := l.(*charmLogger); ok {
		slog.SetDefault(slog.New(cl.inner))
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
