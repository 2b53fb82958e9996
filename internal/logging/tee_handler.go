package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends every record to a console handler and a file handler.
// Each side keeps its own level so the file can stay at debug while the
// terminal shows info.
type teeHandler struct {
	sinks []slog.Handler
}

func newTeeHandler(sinks ...slog.Handler) slog.Handler {
	var kept []slog.Handler
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	switch len(kept) {
	case 0:
		return discardHandler{}
	case 1:
		return kept[0]
	}
	return teeHandler{sinks: kept}
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range t.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, s := range t.sinks {
		if s.Enabled(ctx, record.Level) {
			// Handlers may retain the record's attrs, so each gets a clone.
			errs = append(errs, s.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return t.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return t.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (t teeHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]slog.Handler, len(t.sinks))
	for i, s := range t.sinks {
		next[i] = fn(s)
	}
	return teeHandler{sinks: next}
}
