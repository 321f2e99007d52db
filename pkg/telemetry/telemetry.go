package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dverney/cascade/internal/dispatch"
	"github.com/dverney/cascade/internal/identity"
)

// Designated attribute keys. A record or span is eligible for capture only
// when it carries one of these, and only when the matching opt-in is set.
const (
	FieldActivity = "activity"
	FieldError    = "error"
)

const (
	deliveryWorkers = 4
	deliveryQueue   = 64
)

// Layer taps a slog handler chain and an OpenTelemetry span pipeline for
// eligible records and hands them to a backend Handler. Construction fixes
// the configuration: the opt-in flags and user id are a read-only snapshot,
// so every capture decision is race-free without locking.
//
// Layer implements sdktrace.SpanProcessor; register it on a TracerProvider
// to capture span starts, and use Wrap for the logging half.
type Layer struct {
	handler  Handler
	userID   string
	activity bool
	errors   bool
	logger   *slog.Logger
	pool     *dispatch.Pool
}

var _ sdktrace.SpanProcessor = (*Layer)(nil)

// New builds a layer around handler. The tool name keys the anonymized user
// id, so two tools on the same machine report unrelated identifiers. With no
// options the layer captures nothing.
func New(tool string, handler Handler, opts ...Option) *Layer {
	l := &Layer{
		handler: handler,
		userID:  identity.UserID(tool),
		logger:  slog.Default(),
		pool:    dispatch.New(deliveryWorkers, deliveryQueue),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// UserID returns the anonymized identifier attached to every capture.
func (l *Layer) UserID() string { return l.userID }

// Close stops accepting background deliveries and blocks until everything
// captured so far reached the backend, or until ctx expires. A hung backend
// therefore delays shutdown instead of losing reports. Records captured
// after Close deliver inline on the capturing goroutine, so they still
// happen before the process exits.
func (l *Layer) Close(ctx context.Context) error {
	return l.pool.Close(ctx)
}

// OnStart implements sdktrace.SpanProcessor. An eligible span is converted
// by the Handler right away; only delivery is deferred.
func (l *Layer) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if !l.interestedSpan(s.Attributes()) {
		return
	}
	l.deliver(l.handler.OnSpan(l.userID, s))
}

// OnEnd implements sdktrace.SpanProcessor. Only span starts are reported.
func (l *Layer) OnEnd(sdktrace.ReadOnlySpan) {}

// Shutdown implements sdktrace.SpanProcessor by draining, exactly as Close.
func (l *Layer) Shutdown(ctx context.Context) error { return l.Close(ctx) }

// ForceFlush implements sdktrace.SpanProcessor. It waits for in-flight
// deliveries without stopping intake.
func (l *Layer) ForceFlush(ctx context.Context) error { return l.pool.Flush(ctx) }

func (l *Layer) capturing() bool { return l.activity || l.errors }

func (l *Layer) interestedSpan(attrs []attribute.KeyValue) bool {
	if !l.capturing() {
		return false
	}
	var hasActivity, hasError bool
	for _, kv := range attrs {
		switch string(kv.Key) {
		case FieldActivity:
			hasActivity = true
		case FieldError:
			hasError = true
		}
	}
	return (l.activity && hasActivity) || (l.errors && hasError)
}

func (l *Layer) tapRecord(rec slog.Record) {
	if !l.interestedRecord(rec) {
		return
	}
	l.deliver(l.handler.OnEvent(l.userID, rec))
}

func (l *Layer) interestedRecord(rec slog.Record) bool {
	if !l.capturing() {
		return false
	}
	var hasActivity, hasError bool
	rec.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case FieldActivity:
			hasActivity = true
		case FieldError:
			hasError = true
		}
		return !(hasActivity && hasError)
	})
	return (l.activity && hasActivity) || (l.errors && hasError)
}

// deliver hands the event to the pool. Failures are logged under the
// "reason" key, which is not a designated field, so a failing backend can
// never feed the layer its own reports.
func (l *Layer) deliver(ev Event) {
	l.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				l.logger.Warn("telemetry delivery panicked", "reason", fmt.Sprint(r))
			}
		}()
		if err := l.handler.Capture(ev); err != nil {
			l.logger.Warn("telemetry delivery failed", "reason", err)
		}
	})
}
