// Package redisink appends telemetry events to a Redis stream, one entry per
// report. Useful when reports should stay inside your own infrastructure or
// feed an existing stream consumer instead of a SaaS backend.
package redisink

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	backend "github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dverney/cascade/pkg/telemetry"
)

var json = jsoniter.ConfigFastest

// Handler reports telemetry events as Redis stream entries. Each entry
// carries the event name, the anonymized user id and the JSON-encoded
// properties.
type Handler struct {
	client     *backend.Client
	stream     string
	maxLen     int64
	timeout    time.Duration
	onActivity string
	onError    string
}

var _ telemetry.Handler = (*Handler)(nil)

// Option defines a functional option for configuring the Handler.
type Option func(*Handler)

// WithStream overrides the stream key. The default is "telemetry:<tool>".
func WithStream(name string) Option {
	return func(h *Handler) {
		h.stream = name
	}
}

// WithMaxLen caps the stream length with approximate trimming. Zero leaves
// the stream untrimmed.
func WithMaxLen(n int64) Option {
	return func(h *Handler) {
		h.maxLen = n
	}
}

// WithTimeout bounds a single delivery. The default is 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.timeout = d
	}
}

// New creates a handler with its own client for the given address.
func New(tool, addr string, opts ...Option) *Handler {
	client := backend.NewClient(&backend.Options{
		Addr: addr,
	})
	return NewFromClient(tool, client, opts...)
}

// NewFromClient creates a handler on an existing client.
func NewFromClient(tool string, client *backend.Client, opts ...Option) *Handler {
	h := &Handler{
		client:     client,
		stream:     "telemetry:" + tool,
		timeout:    5 * time.Second,
		onActivity: tool + "::activity",
		onError:    tool + "::error",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Close closes the underlying client.
func (h *Handler) Close() error {
	return h.client.Close()
}

// OnSpan implements telemetry.Handler.
func (h *Handler) OnSpan(userID string, span sdktrace.ReadOnlySpan) telemetry.Event {
	return telemetry.Event{
		Name:       h.onActivity,
		UserID:     userID,
		Properties: telemetry.SpanFields(span),
	}
}

// OnEvent implements telemetry.Handler. A record carrying the "error" field
// becomes an error report; everything else is activity.
func (h *Handler) OnEvent(userID string, rec slog.Record) telemetry.Event {
	fields := telemetry.Fields(rec)
	if rec.Message != "" {
		if _, ok := fields["message"]; !ok {
			fields["message"] = rec.Message
		}
	}

	name := h.onActivity
	if _, ok := fields[telemetry.FieldError]; ok {
		name = h.onError
	}

	return telemetry.Event{
		Name:       name,
		UserID:     userID,
		Properties: fields,
	}
}

// Capture implements telemetry.Handler.
func (h *Handler) Capture(ev telemetry.Event) error {
	payload, err := json.Marshal(ev.Properties)
	if err != nil {
		return fmt.Errorf("encode properties: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	err = h.client.XAdd(ctx, &backend.XAddArgs{
		Stream: h.stream,
		MaxLen: h.maxLen,
		Approx: true,
		Values: map[string]any{
			"name":       ev.Name,
			"user_id":    ev.UserID,
			"properties": payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", h.stream, err)
	}
	return nil
}
