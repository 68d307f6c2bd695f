package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/neurovis/internal/models"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{"info", "info", slog.LevelInfo},
		{"debug", "debug", slog.LevelDebug},
		{"trace", "trace", LevelTrace},
		{"uppercase INFO", "INFO", slog.LevelInfo},
		{"uppercase DEBUG", "DEBUG", slog.LevelDebug},
		{"uppercase TRACE", "TRACE", LevelTrace},
		{"mixed case Debug", "Debug", slog.LevelDebug},
		{"unknown defaults to info", "unknown", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLevel(tt.input)
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"info level", "info"},
		{"debug level", "debug"},
		{"trace level", "trace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)
			if logger == nil {
				t.Fatal("NewLogger returned nil")
			}
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		logAtDebug bool
		logAtInfo  bool
	}{
		{"info filters debug", "info", false, true},
		{"debug passes debug", "debug", true, true},
		{"trace passes debug", "trace", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(tt.level, &buf)

			logger.Debug("debug message")
			hasDebug := strings.Contains(buf.String(), "debug message")
			if hasDebug != tt.logAtDebug {
				t.Errorf("debug message visible = %v, want %v (buf: %q)", hasDebug, tt.logAtDebug, buf.String())
			}

			buf.Reset()
			logger.Info("info message")
			hasInfo := strings.Contains(buf.String(), "info message")
			if hasInfo != tt.logAtInfo {
				t.Errorf("info message visible = %v, want %v (buf: %q)", hasInfo, tt.logAtInfo, buf.String())
			}
		})
	}
}

func TestLevelTrace(t *testing.T) {
	// Trace should be below debug (more verbose)
	if LevelTrace >= slog.LevelDebug {
		t.Errorf("LevelTrace (%d) should be less than LevelDebug (%d)", LevelTrace, slog.LevelDebug)
	}
}

func TestNewFrameLogger_InfoLevel(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "info")

	// At info level, frame logger should be nil
	if fl != nil {
		t.Error("expected nil FrameLogger at info level")
	}

	// Nil logger should still be safe to use
	fl.Log(FrameEvent{Frame: 1})

	path := filepath.Join(dir, "frames-trace.jsonl")
	if _, err := os.Stat(path); err == nil {
		t.Error("frames-trace.jsonl should not exist at info level")
	}
}

func TestNewFrameLogger_DebugLevel(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "debug")
	defer fl.Close()

	fl.Log(FrameEvent{Frame: 3, Time: 2.5, Spiked: 4, Neurons: 10})

	path := filepath.Join(dir, "frames-trace.jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read frames-trace.jsonl: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("failed to parse JSONL entry: %v", err)
	}

	if entry["frame"] != float64(3) {
		t.Errorf("frame = %v, want 3", entry["frame"])
	}
	if entry["time"] != 2.5 {
		t.Errorf("time = %v, want 2.5", entry["time"])
	}
	if entry["spiked"] != float64(4) || entry["neurons"] != float64(10) {
		t.Errorf("unexpected counts: %v", entry)
	}
	if _, ok := entry["logged_at"]; !ok {
		t.Error("expected 'logged_at' field in frame trace entry")
	}
}

func TestFrameLogger_InfiniteTime(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "debug")
	fl.Log(FrameEvent{Frame: 1, Time: models.Number(math.Inf(1))})
	fl.Close()

	data, err := os.ReadFile(filepath.Join(dir, "frames-trace.jsonl"))
	if err != nil {
		t.Fatalf("failed to read frames-trace.jsonl: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("failed to parse JSONL entry %q: %v", data, err)
	}
	if entry["time"] != "inf" {
		t.Errorf("time = %v, want \"inf\"", entry["time"])
	}
}

func TestNewFrameLogger_TraceLevel(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "trace")
	if fl == nil {
		t.Fatal("expected non-nil FrameLogger at trace level")
	}
	fl.Close()
}

func TestFrameLogger_MultipleWrites(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "debug")
	defer fl.Close()

	fl.Log(FrameEvent{Frame: 1})
	fl.Log(FrameEvent{Frame: 2})

	data, err := os.ReadFile(filepath.Join(dir, "frames-trace.jsonl"))
	if err != nil {
		t.Fatalf("failed to read frames-trace.jsonl: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestNewFrameLogger_TruncatesPreviousRun(t *testing.T) {
	dir := t.TempDir()

	fl := NewFrameLogger(dir, "debug")
	fl.Log(FrameEvent{Frame: 1})
	fl.Log(FrameEvent{Frame: 2})
	fl.Close()

	fl = NewFrameLogger(dir, "debug")
	fl.Log(FrameEvent{Frame: 7})
	fl.Close()

	data, err := os.ReadFile(filepath.Join(dir, "frames-trace.jsonl"))
	if err != nil {
		t.Fatalf("failed to read frames-trace.jsonl: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line after rerun, got %d", len(lines))
	}
}

func TestFrameLogger_NilSafe(t *testing.T) {
	var fl *FrameLogger
	fl.Log(FrameEvent{Frame: 1})
	fl.Close()
}

func TestFrameLogger_LogAfterClose(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "debug")

	fl.Log(FrameEvent{Frame: 1})
	fl.Close()

	// Should be a no-op, not panic or error
	fl.Log(FrameEvent{Frame: 2})
}

func TestNewFrameLogger_CreatesDir(t *testing.T) {
	base := t.TempDir()
	nestedDir := filepath.Join(base, "sub", "dir")

	fl := NewFrameLogger(nestedDir, "debug")
	if fl == nil {
		t.Fatal("expected non-nil FrameLogger when dir needs creation")
	}
	defer fl.Close()

	fl.Log(FrameEvent{Frame: 1})

	if _, err := os.Stat(filepath.Join(nestedDir, "frames-trace.jsonl")); err != nil {
		t.Fatalf("frames-trace.jsonl should exist after dir creation: %v", err)
	}
}

func TestFrameLogger_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	fl := NewFrameLogger(dir, "debug")
	defer fl.Close()

	info, err := os.Stat(filepath.Join(dir, "frames-trace.jsonl"))
	if err != nil {
		t.Fatalf("failed to stat frames-trace.jsonl: %v", err)
	}

	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}
}
