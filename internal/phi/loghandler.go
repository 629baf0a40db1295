package phi

import (
	"context"
	"log/slog"
)

// LogHandler wraps a slog.Handler and masks every record before it reaches
// the sink. Centralizing the guarantee here means call sites cannot opt out:
// any logger built on this handler is PHI-safe.
type LogHandler struct {
	inner slog.Handler
}

var _ slog.Handler = (*LogHandler)(nil)

// NewLogHandler wraps inner with PHI masking.
func NewLogHandler(inner slog.Handler) *LogHandler {
	return &LogHandler{inner: inner}
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *LogHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, Mask(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(maskAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, masked)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		masked[i] = maskAttr(attr)
	}
	return &LogHandler{inner: h.inner.WithAttrs(masked)}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{inner: h.inner.WithGroup(name)}
}

func maskAttr(attr slog.Attr) slog.Attr {
	if SensitiveKey(attr.Key) {
		return slog.String(attr.Key, redactedToken)
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, Mask(value.String()))
	case slog.KindGroup:
		group := value.Group()
		masked := make([]any, 0, len(group))
		for _, member := range group {
			masked = append(masked, maskAttr(member))
		}
		return slog.Group(attr.Key, masked...)
	case slog.KindAny:
		return slog.Any(attr.Key, MaskValue(value.Any()))
	default:
		return attr
	}
}
