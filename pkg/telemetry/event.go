package telemetry

import (
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Event is one captured report, ready for delivery. Handlers construct it on
// the instrumented path and consume it exactly once on the delivery path; it
// is never mutated after construction.
type Event struct {
	// Name identifies the kind of report to the backend, for example
	// "mytool::activity".
	Name string

	// UserID is the anonymized machine identifier the layer was built with.
	UserID string

	// Properties carries the report payload as JSON-compatible values.
	Properties map[string]any
}

// Handler turns eligible spans and log records into Events and delivers
// them. Implementations must be safe for concurrent use: construction runs
// on the instrumented goroutine while Capture runs on delivery workers.
type Handler interface {
	// OnSpan builds an Event from a span that passed the layer's filter.
	// It is called synchronously at span start.
	OnSpan(userID string, span sdktrace.ReadOnlySpan) Event

	// OnEvent builds an Event from a log record that passed the layer's
	// filter. The record already includes attributes accumulated through
	// the handler chain.
	OnEvent(userID string, rec slog.Record) Event

	// Capture delivers the event to the backend and reports transport or
	// serialization failure. It must not retry internally; retry policy is
	// the backend's own business.
	Capture(ev Event) error
}
