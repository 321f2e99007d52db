package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// fieldSelf is dropped from every extraction so receiver-style context
// never reaches a backend.
const fieldSelf = "self"

// Fields extracts a record's attributes into JSON-compatible values.
// Groups flatten into dot-joined keys, LogValuers are resolved, errors
// render as their message, and anything else falls back to its printed
// form. The top-level "self" attribute is skipped.
func Fields(rec slog.Record) map[string]any {
	out := make(map[string]any, rec.NumAttrs())
	rec.Attrs(func(a slog.Attr) bool {
		addField(out, "", a)
		return true
	})
	return out
}

// SpanFields extracts a span's start attributes, minus "self".
func SpanFields(span sdktrace.ReadOnlySpan) map[string]any {
	attrs := span.Attributes()
	out := make(map[string]any, len(attrs))
	for _, kv := range attrs {
		if kv.Key == fieldSelf {
			continue
		}
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func addField(out map[string]any, prefix string, a slog.Attr) {
	if prefix == "" && a.Key == fieldSelf {
		return
	}

	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + a.Key
	}

	switch v.Kind() {
	case slog.KindGroup:
		if a.Key == "" {
			// Inline group: children flatten at the current level.
			key = prefix
		}
		for _, ga := range v.Group() {
			addField(out, key, ga)
		}
	case slog.KindString:
		out[key] = v.String()
	case slog.KindInt64:
		out[key] = v.Int64()
	case slog.KindUint64:
		out[key] = v.Uint64()
	case slog.KindBool:
		out[key] = v.Bool()
	case slog.KindFloat64:
		out[key] = v.Float64()
	case slog.KindDuration:
		out[key] = v.Duration().String()
	case slog.KindTime:
		out[key] = v.Time().Format(time.RFC3339Nano)
	default:
		if err, ok := v.Any().(error); ok {
			out[key] = err.Error()
			return
		}
		out[key] = fmt.Sprintf("%v", v.Any())
	}
}
