package log

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Config declares a logger in configuration files and environment.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
	// Format is one of text, json, logfmt.
	Format string `json:"format" yaml:"format"`
	// Output is stderr (default), stdout, or a file path opened for append.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	// Caller adds file:line to every record.
	Caller bool `json:"caller,omitempty" yaml:"caller,omitempty"`
}

// ApplyConfig builds a Logger from cfg.
func ApplyConfig(cfg *Config) (Logger, error) {
	if cfg == nil {
		return NewLogger(), nil
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	out, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}
	return NewLogger(
		WithLevel(level),
		WithFormat(format),
		WithOutput(out),
		WithCaller(cfg.Caller),
	), nil
}

func parseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", TextFormat:
		return TextFormat, nil
	case JSONFormat:
		return JSONFormat, nil
	case LogfmtFormat:
		return LogfmtFormat, nil
	default:
		return TextFormat, fmt.Errorf("log: unknown format %q", s)
	}
}

func openOutput(s string) (io.Writer, error) {
	switch strings.TrimSpace(s) {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	default:
		f, err := os.OpenFile(s, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("log: open output: %w", err)
		}
		return f, nil
	}
}
