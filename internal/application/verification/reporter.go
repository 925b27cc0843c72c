package verification

import (
	"context"
	"log/slog"
)

// NopReporter discards captured errors.
type NopReporter struct{}

func (NopReporter) Capture(context.Context, error, ...any) {}

// LogReporter records captured errors through a logger when no tracker is configured.
type LogReporter struct {
	Logger *slog.Logger
}

func (r LogReporter) Capture(ctx context.Context, err error, attrs ...any) {
	l := r.Logger
	if l == nil {
		l = slog.Default()
	}
	l.ErrorContext(ctx, "captured error", append([]any{"err", err}, attrs...)...)
}
