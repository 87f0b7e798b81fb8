// Package log provides slog helpers shared by the command-line tools:
// credential redaction and size-based log rotation.
package log

import (
	"context"
	"log/slog"
	"strings"
)

// sensitiveKeys lists key substrings whose values are redacted.
// Matching is case-insensitive.
var sensitiveKeys = []string{
	"password",
	"pass",
	"secret",
	"token",
	"auth",
	"cookie",
	"cred",
}

// Redacted replaces the value of any sensitive attribute.
const Redacted = "[REDACTED]"

// RedactingHandler is a slog.Handler that redacts sensitive attribute
// values before they reach the wrapped handler. Wiki credentials appear in
// config dumps and URL attributes, so every log line passes through it.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next with redaction.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, redactAttr(a))
		return true
	})

	newRecord := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	newRecord.AddAttrs(attrs...)

	return h.next.Handle(ctx, newRecord)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		group := make([]interface{}, len(attrs))
		for i, attr := range attrs {
			group[i] = redactAttr(attr)
		}
		return slog.Group(a.Key, group...)
	}

	lowerKey := strings.ToLower(a.Key)
	for _, sens := range sensitiveKeys {
		if strings.Contains(lowerKey, sens) {
			return slog.String(a.Key, Redacted)
		}
	}

	return a
}
