// Package logging provides leveled logging and frame tracing for neurovis.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A FrameLogger for structured JSONL frame traces (frames-trace.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nvandessel/neurovis/internal/constants"
	"github.com/nvandessel/neurovis/internal/models"
)

// LevelTrace is a custom slog level below Debug.
// At this level every applied frame is also logged to stderr.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// FrameEvent is one line of the frame trace.
type FrameEvent struct {
	Frame   int           `json:"frame"`
	Time    models.Number `json:"time"`
	Spiked  int           `json:"spiked"`
	Neurons int           `json:"neurons"`
}

// FrameLogger writes one JSONL line per applied frame.
// It is safe for concurrent use. A nil FrameLogger is safe to use;
// all methods are no-ops on nil receiver.
type FrameLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewFrameLogger creates a frame logger writing to dir/frames-trace.jsonl.
// At "info" level (the default), returns nil and no file is created.
// At "debug" or "trace" level, the file is truncated and opened for writing.
// Returns nil if the file cannot be opened. All methods are nil-safe.
func NewFrameLogger(dir string, level string) *FrameLogger {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, constants.FrameTraceFile)
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &FrameLogger{file: f}
}

// Log writes a frame event as a single JSONL line with a "logged_at" stamp.
// Safe to call on nil receiver.
func (fl *FrameLogger) Log(ev FrameEvent) {
	if fl == nil || fl.file == nil {
		return
	}

	entry := struct {
		FrameEvent
		LoggedAt string `json:"logged_at"`
	}{ev, time.Now().UTC().Format(time.RFC3339Nano)}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.file == nil {
		return
	}
	_, _ = fl.file.Write(data)
}

// Close closes the underlying file. Safe to call on nil receiver.
func (fl *FrameLogger) Close() {
	if fl == nil {
		return
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.file != nil {
		fl.file.Close()
		fl.file = nil
	}
}
