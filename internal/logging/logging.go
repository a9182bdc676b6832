package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/thoreinstein/loadout/internal/errors"
)

// Format selects the log output encoding.
type Format string

const (
	// FormatText is the human-readable encoding.
	FormatText Format = "text"
	// FormatJSON is the machine-readable encoding.
	FormatJSON Format = "json"
)

// ParseFormat maps a config or flag value to a Format. The empty string
// means FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.Newf("unknown log format %q", s)
}

// ParseLevel maps a config or flag value to a slog level. The empty string
// means LevelInfo.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, errors.Newf("unknown log level %q", s)
}

// Config describes the logger to build.
type Config struct {
	// Level is the minimum level emitted.
	Level slog.Level

	// Format selects text or JSON encoding.
	Format Format

	// Output receives the log stream. Nil means os.Stderr.
	Output io.Writer
}

// New builds a logger from cfg. Text output goes through the TTY-aware
// handler, which colors levels only when the destination supports it.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(NewHandler(out, opts))
}

// Default returns the logger used before flags are parsed: warnings and
// errors in text form on stderr.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelWarn})
}

// NewDiscard returns a logger that drops everything. Library types use it
// as the fallback when no logger is injected.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ForTest returns a debug-level logger routed through t.Log, so log lines
// show up attached to the test that emitted them.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{Level: slog.LevelDebug, Output: testWriter{t}})
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
