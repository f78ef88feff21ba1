package diag

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlog_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	d := Slog{Logger: NewLogger(&buf, slog.LevelWarn)}

	d.Info("kept papers", "kept", 3)
	d.Warn("field missing", "field", "abstract", "record", "10.1/aa")

	out := buf.String()
	if strings.Contains(out, "kept papers") {
		t.Errorf("INFO message should be filtered at WARN level, got:\n%s", out)
	}
	if !strings.Contains(out, "field=abstract") || !strings.Contains(out, "record=10.1/aa") {
		t.Errorf("WARN message missing attributes, got:\n%s", out)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Info("supersession", "kept", 2, "superseded", 1)
	r.Warn("field missing", "field", "title")

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries() = %d, want 2", len(entries))
	}
	if entries[0].Attrs["kept"] != "2" {
		t.Errorf("kept attr = %q, want 2", entries[0].Attrs["kept"])
	}

	warnings := r.Warnings()
	if len(warnings) != 1 || warnings[0].Attrs["field"] != "title" {
		t.Errorf("Warnings() = %+v, want one title warning", warnings)
	}
}

func TestTee(t *testing.T) {
	var a, b Recorder
	tee := Tee{&a, &b}
	tee.Warn("x")
	tee.Info("y")

	if len(a.Entries()) != 2 || len(b.Entries()) != 2 {
		t.Errorf("Tee should forward to all sinks: a=%d b=%d", len(a.Entries()), len(b.Entries()))
	}
}
