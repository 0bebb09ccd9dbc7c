package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	generationIDKey ctxKey = iota
	scopePathKey
)

// WithGenerationID returns a context with the generation pass ID set.
func WithGenerationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, generationIDKey, id)
}

// WithScopePath returns a context with the current scope path set.
func WithScopePath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, scopePathKey, path)
}

// GenerationID extracts the generation pass ID from the context, or "" if absent.
func GenerationID(ctx context.Context) string {
	v, _ := ctx.Value(generationIDKey).(string)
	return v
}

// ScopePath extracts the scope path from the context, or "" if absent.
func ScopePath(ctx context.Context) string {
	v, _ := ctx.Value(scopePathKey).(string)
	return v
}

// LogWith returns a logger enriched with correlation IDs from the context.
// Only non-empty values are added as attributes.
func LogWith(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := GenerationID(ctx); id != "" {
		logger = logger.With(slog.String("generation_id", id))
	}
	if path := ScopePath(ctx); path != "" {
		logger = logger.With(slog.String("scope", path))
	}
	return logger
}

// CorrelationHandler wraps an slog.Handler, automatically injecting
// correlation IDs from the context into every log record.
// Use with slog.New(NewCorrelationHandler(inner)) so callers can use
// logger.InfoContext(ctx, ...) and IDs appear automatically.
type CorrelationHandler struct {
	inner slog.Handler
}

// NewCorrelationHandler wraps the given handler with automatic correlation ID injection.
func NewCorrelationHandler(inner slog.Handler) *CorrelationHandler {
	return &CorrelationHandler{inner: inner}
}

func (h *CorrelationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *CorrelationHandler) Handle(ctx context.Context, r slog.Record) error {
	if v := GenerationID(ctx); v != "" {
		r.AddAttrs(slog.String("generation_id", v))
	}
	if v := ScopePath(ctx); v != "" {
		r.AddAttrs(slog.String("scope", v))
	}
	return h.inner.Handle(ctx, r)
}

func (h *CorrelationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *CorrelationHandler) WithGroup(name string) slog.Handler {
	return &CorrelationHandler{inner: h.inner.WithGroup(name)}
}
