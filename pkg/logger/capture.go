package logger

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CaptureWriter records every emitted log event so a stage-trigger response
// can carry the run's log lines back to the caller.
type CaptureWriter struct {
	mu      sync.Mutex
	entries []json.RawMessage
}

// Write stores one JSON log line. It never fails.
func (w *CaptureWriter) Write(p []byte) (int, error) {
	entry := make(json.RawMessage, len(p))
	copy(entry, p)

	w.mu.Lock()
	w.entries = append(w.entries, entry)
	w.mu.Unlock()
	return len(p), nil
}

// Entries returns the captured log lines in emit order.
func (w *CaptureWriter) Entries() []json.RawMessage {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]json.RawMessage, len(w.entries))
	copy(out, w.entries)
	return out
}

// NewWithCapture builds a logger from the config that also tees every event,
// as raw JSON, into the returned capture writer. The configured output keeps
// its format; the capture always sees JSON.
func NewWithCapture(cfg Config) (*Logger, *CaptureWriter) {
	capture := &CaptureWriter{}

	var output io.Writer = os.Stdout
	if cfg.Output != "" && cfg.Output != "stdout" {
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			output = file
		}
	}
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	l := zerolog.New(zerolog.MultiLevelWriter(output, capture)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{Logger: l}, capture
}
