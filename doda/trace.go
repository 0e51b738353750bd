package doda

import (
	"context"
	"log/slog"
)

// LevelCompile is a slog level between Info and Warn used for the
// compiler's own tracing (node creation, PE assignment, resolution).
// Mirrors the teacher's LevelTrace/LevelWaveform tiers in core/util.go.
const LevelCompile slog.Level = slog.LevelInfo + 1

// Trace emits a compile-phase trace log entry.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelCompile, msg, args...)
}
