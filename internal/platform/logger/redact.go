package logger

import (
	"context"
	"log/slog"
	"strings"
)

const redacted = "[REDACTED]"

// SensitiveKeys are attribute keys whose values are never written.
var SensitiveKeys = []string{
	"authorization", "cookie", "set-cookie", "password", "token", "secret", "api_key", "x-api-key",
}

// RedactingHandler replaces the values of sensitive attributes before they
// reach the wrapped handler. Groups and header maps are walked too.
type RedactingHandler struct {
	next slog.Handler
	keys map[string]bool
}

// NewRedactingHandler matches sensitive keys case-insensitively.
func NewRedactingHandler(next slog.Handler, sensitive []string) *RedactingHandler {
	keys := make(map[string]bool, len(sensitive))
	for _, k := range sensitive {
		keys[strings.ToLower(k)] = true
	}
	return &RedactingHandler{next: next, keys: keys}
}

func redact(h slog.Handler) slog.Handler {
	return NewRedactingHandler(h, SensitiveKeys)
}

func (h *RedactingHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.scrub(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &RedactingHandler{next: h.next.WithAttrs(h.scrubAll(attrs)), keys: h.keys}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name), keys: h.keys}
}

func (h *RedactingHandler) scrubAll(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.scrub(a)
	}
	return out
}

func (h *RedactingHandler) scrub(a slog.Attr) slog.Attr {
	if h.keys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(h.scrubAll(v.Group())...)}
	case slog.KindString:
		if secretLike(v.String()) {
			return slog.String(a.Key, redacted)
		}
	case slog.KindAny:
		// Event headers arrive as map[string]string.
		if m, ok := v.Any().(map[string]string); ok {
			return slog.Any(a.Key, h.scrubHeaders(m))
		}
	}
	return a
}

func (h *RedactingHandler) scrubHeaders(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if h.keys[strings.ToLower(k)] || secretLike(v) {
			v = redacted
		}
		out[k] = v
	}
	return out
}

// secretLike flags long values shaped like API keys or bearer tokens.
func secretLike(s string) bool {
	if len(s) <= 12 {
		return false
	}
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "bearer ") ||
		strings.Contains(s, "sk-") ||
		strings.Contains(lower, "token")
}
