package logging

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom level below slog.LevelDebug for very granular
// output, enabled at verbosity 3 and above.
const LevelTrace = slog.LevelDebug - 4

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the given logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() if none
// is present. The returned logger is never nil.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// LevelFromVerbosity maps a -v count to a slog level.
//
//	0: warnings and errors only
//	1: info
//	2: debug
//	3+: trace (debug with extra granularity)
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
