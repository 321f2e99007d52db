package telemetry

import (
	"context"
	"log/slog"
)

// Wrap returns a slog.Handler that taps every record for capture and then
// forwards it to next. Pass nil to get a capture-only handler.
//
// The returned handler reports itself enabled for every level while capture
// is switched on: eligibility is decided per record by the designated
// attributes, and a host's level configuration must not be able to starve
// the tap. Forwarding to next still honors next's own Enabled.
func (l *Layer) Wrap(next slog.Handler) slog.Handler {
	return &middleware{layer: l, next: next}
}

// middleware carries the accumulated WithAttrs attributes itself, keys
// pre-qualified with the open group path, so the tap sees the same flat
// field set a terminal handler would render.
type middleware struct {
	layer  *Layer
	next   slog.Handler
	attrs  []slog.Attr
	prefix string
}

func (h *middleware) Enabled(ctx context.Context, level slog.Level) bool {
	if h.layer.capturing() {
		return true
	}
	if h.next != nil {
		return h.next.Enabled(ctx, level)
	}
	return false
}

func (h *middleware) Handle(ctx context.Context, rec slog.Record) error {
	h.layer.tapRecord(h.merged(rec))

	if h.next != nil && h.next.Enabled(ctx, rec.Level) {
		return h.next.Handle(ctx, rec)
	}
	return nil
}

// merged builds the record the tap inspects: accumulated attributes first,
// then the record's own, so ad hoc values win a key collision.
func (h *middleware) merged(rec slog.Record) slog.Record {
	if len(h.attrs) == 0 && h.prefix == "" {
		return rec
	}

	merged := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	merged.AddAttrs(h.attrs...)
	rec.Attrs(func(a slog.Attr) bool {
		merged.AddAttrs(h.qualify(a))
		return true
	})
	return merged
}

func (h *middleware) qualify(a slog.Attr) slog.Attr {
	if h.prefix == "" {
		return a
	}
	return slog.Attr{Key: h.prefix + "." + a.Key, Value: a.Value}
}

func (h *middleware) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	nh := h.clone()
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, h.qualify(a))
	}
	if h.next != nil {
		nh.next = h.next.WithAttrs(attrs)
	}
	return nh
}

func (h *middleware) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	nh := h.clone()
	if nh.prefix == "" {
		nh.prefix = name
	} else {
		nh.prefix += "." + name
	}
	if h.next != nil {
		nh.next = h.next.WithGroup(name)
	}
	return nh
}

func (h *middleware) clone() *middleware {
	attrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+4)
	copy(attrs, h.attrs)
	return &middleware{
		layer:  h.layer,
		next:   h.next,
		attrs:  attrs,
		prefix: h.prefix,
	}
}
