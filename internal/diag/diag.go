// Package diag provides Diagnostics sinks for the index pipeline.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/lrrindex/lrr-index/internal/paper"
)

// ParseLevel converts a LOG_LEVEL value to a slog level.
// Unknown or empty values map to INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Slog adapts a *slog.Logger to paper.Diagnostics.
type Slog struct {
	Logger *slog.Logger
}

var _ paper.Diagnostics = Slog{}

// Info logs at INFO level.
func (s Slog) Info(msg string, args ...any) { s.logger().Info(msg, args...) }

// Warn logs at WARN level.
func (s Slog) Warn(msg string, args ...any) { s.logger().Warn(msg, args...) }

func (s Slog) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Entry is one recorded diagnostic.
type Entry struct {
	Level slog.Level
	Msg   string
	Attrs map[string]string
}

// Recorder keeps every diagnostic in memory. Useful in tests and for
// summarising a run.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ paper.Diagnostics = (*Recorder)(nil)

// Info records an INFO entry.
func (r *Recorder) Info(msg string, args ...any) { r.add(slog.LevelInfo, msg, args) }

// Warn records a WARN entry.
func (r *Recorder) Warn(msg string, args ...any) { r.add(slog.LevelWarn, msg, args) }

func (r *Recorder) add(level slog.Level, msg string, args []any) {
	attrs := make(map[string]string)
	for i := 0; i+1 < len(args); i += 2 {
		attrs[fmt.Sprint(args[i])] = fmt.Sprint(args[i+1])
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Attrs: attrs})
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Warnings returns only the WARN entries.
func (r *Recorder) Warnings() []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == slog.LevelWarn {
			out = append(out, e)
		}
	}
	return out
}

// Tee fans every message out to several sinks.
type Tee []paper.Diagnostics

// Info forwards to every sink.
func (t Tee) Info(msg string, args ...any) {
	for _, d := range t {
		d.Info(msg, args...)
	}
}

// Warn forwards to every sink.
func (t Tee) Warn(msg string, args ...any) {
	for _, d := range t {
		d.Warn(msg, args...)
	}
}
