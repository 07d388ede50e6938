// Package testutil provides shared helpers for the command and pipeline
// tests.
package testutil

import (
	"bytes"
	"log/slog"
	"testing"
)

// NewTestLogger returns a debug-level slog.Logger that routes pipeline
// log records through t.Log, so they show up interleaved with test
// output on failure or under -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(tLogWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type tLogWriter struct {
	t testing.TB
}

// Write forwards one log record to t.Log. The handler terminates each
// record with a newline and t.Log adds its own, so the trailing one is
// trimmed to keep test output single-spaced.
func (w tLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}
