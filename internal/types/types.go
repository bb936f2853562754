// Package types provides internal types shared across goaper packages.
package types

import (
	"context"
	"log/slog"
	"sort"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, definitions, codec steps).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// ctx is a package-level context for logging.
var ctx = context.Background()

// Logger wraps slog.Logger with nil-safe helpers.
type Logger struct {
	L *slog.Logger
}

// Enabled returns true if logging is enabled at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(ctx, level)
}

// Log emits a log message if logging is enabled.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L != nil && l.L.Enabled(ctx, level) {
		l.L.LogAttrs(ctx, level, msg, attrs...)
	}
}

// TraceEnabled returns true if trace-level logging is enabled.
func (l *Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a trace-level log.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}

// Component returns a child logger tagged with the component name,
// or nil if logger is nil.
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", name))
}

// ByteOffset is a byte position in source text.
type ByteOffset uint32

// Span represents a range in source text.
type Span struct {
	Start ByteOffset // inclusive
	End   ByteOffset // exclusive
}

// Synthetic is a span for constructs built outside of any source text.
var Synthetic = Span{}

// NewSpan creates a new span.
func NewSpan(start, end ByteOffset) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes.
func (s Span) Len() ByteOffset {
	return s.End - s.Start
}

// IsSynthetic returns true if this is a synthetic span.
func (s Span) IsSynthetic() bool {
	return s.Start == 0 && s.End == 0
}

// Position is a 1-based line and column in source text.
// The zero value means the position is unknown.
type Position struct {
	Line   int
	Column int
}

// IsKnown reports whether the position refers to real source text.
func (p Position) IsKnown() bool {
	return p.Line > 0
}

// LineTable maps byte offsets to line and column numbers.
type LineTable struct {
	starts []ByteOffset
}

// NewLineTable indexes the line starts of source.
func NewLineTable(source []byte) *LineTable {
	starts := []ByteOffset{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return &LineTable{starts: starts}
}

// Position returns the line and column of offset.
func (t *LineTable) Position(offset ByteOffset) Position {
	if t == nil || len(t.starts) == 0 {
		return Position{}
	}
	line := sort.Search(len(t.starts), func(i int) bool {
		return t.starts[i] > offset
	}) - 1
	return Position{Line: line + 1, Column: int(offset-t.starts[line]) + 1}
}
