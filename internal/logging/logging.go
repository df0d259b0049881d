// Package logging builds the process logger. Console output is text split
// by severity: errors go to the error stream, everything else to the
// regular one. An optional log file receives every record as JSON.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Output describes where records go.
type Output struct {
	// Level is the lowest level logged.
	Level slog.Level
	// Console receives records below slog.LevelError.
	Console io.Writer
	// Errors receives slog.LevelError and above.
	Errors io.Writer
	// File receives every record as JSON. It may be nil.
	File io.Writer
}

// New returns a logger writing to o.
func New(o Output) *slog.Logger {
	opts := &slog.HandlerOptions{Level: o.Level}
	var h slog.Handler = split{
		at:   slog.LevelError,
		low:  slog.NewTextHandler(o.Console, opts),
		high: slog.NewTextHandler(o.Errors, opts),
	}
	if o.File != nil {
		h = tee{h, slog.NewJSONHandler(o.File, opts)}
	}
	return slog.New(h)
}

// Setup installs the default logger at level, writing to the console and,
// when path is set, appending to the file at path. The returned close
// function is never nil.
func Setup(path string, level slog.Level) (func() error, error) {
	out := Output{Level: level, Console: os.Stdout, Errors: os.Stderr}
	closeFile := func() error { return nil }

	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", path, err)
		}
		out.File = f
		closeFile = f.Close
	}

	slog.SetDefault(New(out))
	return closeFile, nil
}

// split hands a record to low or high depending on its level.
type split struct {
	at        slog.Level
	low, high slog.Handler
}

func (s split) pick(l slog.Level) slog.Handler {
	if l >= s.at {
		return s.high
	}
	return s.low
}

func (s split) Enabled(ctx context.Context, l slog.Level) bool {
	return s.pick(l).Enabled(ctx, l)
}

func (s split) Handle(ctx context.Context, r slog.Record) error {
	return s.pick(r.Level).Handle(ctx, r)
}

func (s split) WithAttrs(attrs []slog.Attr) slog.Handler {
	return split{at: s.at, low: s.low.WithAttrs(attrs), high: s.high.WithAttrs(attrs)}
}

func (s split) WithGroup(name string) slog.Handler {
	return split{at: s.at, low: s.low.WithGroup(name), high: s.high.WithGroup(name)}
}

// tee hands every record to each of its handlers.
type tee []slog.Handler

func (t tee) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t tee) WithGroup(name string) slog.Handler {
	out := make(tee, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
