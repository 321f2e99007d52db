// Package posthog delivers telemetry events to PostHog.
//
// Activity reports are named "<tool>::activity" and error reports
// "<tool>::error"; both can be renamed with WithNames. Every report carries
// the standard properties "name", "$lib", "level", "module" and "version",
// plus "$screen_name" mirroring the activity value when one is present, plus
// every ad hoc field attached to the record or span. Ad hoc fields never
// displace the standard properties.
package posthog

import (
	"fmt"
	"log/slog"
	"strings"

	backend "github.com/posthog/posthog-go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dverney/cascade/pkg/telemetry"
)

// Handler reports telemetry events to PostHog. It is immutable after
// construction and therefore safe for concurrent use.
type Handler struct {
	apiKey     string
	endpoint   string
	onActivity string
	onError    string
}

var _ telemetry.Handler = (*Handler)(nil)

// Option defines a functional option for configuring the Handler.
type Option func(*Handler)

// WithNames overrides the activity and error event names. The defaults are
// "<tool>::activity" and "<tool>::error".
func WithNames(activity, errorName string) Option {
	return func(h *Handler) {
		h.onActivity = activity
		h.onError = errorName
	}
}

// WithEndpoint points the handler at a different PostHog instance, for
// example a self-hosted deployment or a test server.
func WithEndpoint(url string) Option {
	return func(h *Handler) {
		h.endpoint = url
	}
}

// New creates a PostHog handler using the given project API key.
func New(tool, apiKey string, opts ...Option) *Handler {
	h := &Handler{
		apiKey:     apiKey,
		onActivity: tool + "::activity",
		onError:    tool + "::error",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnSpan implements telemetry.Handler.
func (h *Handler) OnSpan(userID string, span sdktrace.ReadOnlySpan) telemetry.Event {
	fields := telemetry.SpanFields(span)
	return telemetry.Event{
		Name:   h.onActivity,
		UserID: userID,
		Properties: props(meta{
			name:   span.Name(),
			level:  "info",
			module: span.InstrumentationScope().Name,
		}, fields),
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

	srcName, module := recordMeta(rec)
	return telemetry.Event{
		Name:   name,
		UserID: userID,
		Properties: props(meta{
			name:   srcName,
			level:  strings.ToLower(rec.Level.String()),
			module: module,
		}, fields),
	}
}

// Capture implements telemetry.Handler. A client per capture keeps the
// handler stateless; Close flushes the queue before returning, so delivery
// has completed either way by the time Capture does.
func (h *Handler) Capture(ev telemetry.Event) error {
	result := make(chan error, 1)
	client, err := backend.NewWithConfig(h.apiKey, backend.Config{
		Endpoint: h.endpoint,
		Callback: sendResult{result},
	})
	if err != nil {
		return fmt.Errorf("posthog client: %w", err)
	}

	if err := client.Enqueue(backend.Capture{
		DistinctId: ev.UserID,
		Event:      ev.Name,
		Properties: backend.Properties(ev.Properties),
	}); err != nil {
		_ = client.Close()
		return fmt.Errorf("posthog enqueue: %w", err)
	}

	if err := client.Close(); err != nil {
		return fmt.Errorf("posthog flush: %w", err)
	}

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("posthog capture: %w", err)
		}
	default:
	}
	return nil
}

// sendResult surfaces the client's asynchronous delivery outcome.
type sendResult struct {
	errs chan error
}

func (s sendResult) Success(backend.APIMessage) {}

func (s sendResult) Failure(_ backend.APIMessage, err error) {
	select {
	case s.errs <- err:
	default:
	}
}
