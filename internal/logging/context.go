package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldAction is the standardized key for tracked action names.
	FieldAction = "action"
	// FieldWatcher is the standardized key for configured watcher names.
	FieldWatcher = "watcher"
	// FieldProgress is the standardized key for progress states.
	FieldProgress = "progress"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)

type contextKey string

const (
	actionKey  contextKey = "action"
	watcherKey contextKey = "watcher"
)

// WithAction tags ctx with the tracked action being processed.
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, actionKey, action)
}

// WithWatcher tags ctx with the watcher being evaluated.
func WithWatcher(ctx context.Context, watcher string) context.Context {
	return context.WithValue(ctx, watcherKey, watcher)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if action, ok := ctx.Value(actionKey).(string); ok && action != "" {
		fields = append(fields, slog.String(FieldAction, action))
	}
	if watcher, ok := ctx.Value(watcherKey).(string); ok && watcher != "" {
		fields = append(fields, slog.String(FieldWatcher, watcher))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
