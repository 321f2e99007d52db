package telemetry_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/dverney/cascade/pkg/telemetry"
)

func record(attrs ...slog.Attr) slog.Record {
	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "msg", 0)
	rec.AddAttrs(attrs...)
	return rec
}

func TestFields_ScalarKinds(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := record(
		slog.String("s", "text"),
		slog.Int64("i", -3),
		slog.Uint64("u", 7),
		slog.Bool("b", true),
		slog.Float64("f", 1.5),
		slog.Duration("d", 1500*time.Millisecond),
		slog.Time("t", ts),
	)

	assert.Equal(t, map[string]any{
		"s": "text",
		"i": int64(-3),
		"u": uint64(7),
		"b": true,
		"f": 1.5,
		"d": "1.5s",
		"t": ts.Format(time.RFC3339Nano),
	}, telemetry.Fields(rec))
}

func TestFields_GroupsFlattenWithDots(t *testing.T) {
	rec := record(slog.Group("http",
		slog.String("method", "GET"),
		slog.Group("tls", slog.Bool("ok", true)),
	))

	assert.Equal(t, map[string]any{
		"http.method": "GET",
		"http.tls.ok": true,
	}, telemetry.Fields(rec))
}

func TestFields_InlineGroupFlattensAtCurrentLevel(t *testing.T) {
	rec := record(slog.Attr{
		Key:   "",
		Value: slog.GroupValue(slog.String("a", "1")),
	})

	assert.Equal(t, map[string]any{"a": "1"}, telemetry.Fields(rec))
}

func TestFields_ErrorsRenderAsMessage(t *testing.T) {
	rec := record(slog.Any("cause", errors.New("disk full")))

	assert.Equal(t, map[string]any{"cause": "disk full"}, telemetry.Fields(rec))
}

func TestFields_UnknownTypesFallBackToPrintedForm(t *testing.T) {
	rec := record(slog.Any("pair", struct{ A, B int }{1, 2}))

	assert.Equal(t, map[string]any{"pair": "{1 2}"}, telemetry.Fields(rec))
}

// token hides its raw value from logging.
type token string

func (token) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }

func TestFields_LogValuersAreResolved(t *testing.T) {
	rec := record(slog.Any("token", token("secret")))

	assert.Equal(t, map[string]any{"token": "[REDACTED]"}, telemetry.Fields(rec))
}

func TestFields_TopLevelSelfIsSkipped(t *testing.T) {
	rec := record(
		slog.String("self", "dropped"),
		slog.Group("g", slog.String("self", "kept")),
	)

	assert.Equal(t, map[string]any{"g.self": "kept"}, telemetry.Fields(rec))
}

func TestSpanFields_ExtractsStartAttributes(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	_, span := tp.Tracer("test").Start(context.Background(), "op",
		trace.WithAttributes(
			attribute.String("activity", "sync::pull"),
			attribute.Int("files", 12),
			attribute.Float64("ratio", 0.5),
			attribute.Bool("ok", true),
			attribute.StringSlice("tags", []string{"a", "b"}),
			attribute.String("self", "dropped"),
		))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)

	assert.Equal(t, map[string]any{
		"activity": "sync::pull",
		"files":    int64(12),
		"ratio":    0.5,
		"ok":       true,
		"tags":     []string{"a", "b"},
	}, telemetry.SpanFields(spans[0]))
}
