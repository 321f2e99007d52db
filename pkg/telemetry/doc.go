/*
Package telemetry captures activity and error reports from a structured
logging and tracing pipeline and ships them to a backend.

The layer is a passive tap: it sits in the slog handler chain (Wrap) and in
the OpenTelemetry span pipeline (as a SpanProcessor), decides per record
whether to act, and hands eligible records to a backend Handler. Delivery
happens on a background pool so the instrumented code path never waits on
network I/O; Close drains that pool, so nothing captured before shutdown is
lost.

Some things to note:

  - By default the layer ignores every record and span. Reporting is strictly
    opt-in through the WithActivity and WithErrors options; eligibility is
    decided by the presence of the "activity" or "error" attribute, never by
    log level.
  - User identifiers are stable for a single machine and derived from a
    hashed machine id; the raw id never leaves the process.
  - What each report contains is up to the Handler. See the posthog and
    redisink subpackages for the bundled backends.

# Usage

	handler := posthog.New("mytool", apiKey)
	layer := telemetry.New("mytool", handler,
		telemetry.WithActivity(),
		telemetry.WithErrors(),
	)
	defer layer.Close(context.Background())

	slog.SetDefault(slog.New(layer.Wrap(slog.NewTextHandler(os.Stderr, nil))))

	slog.Info("synced", "activity", "sync::pull", "files", 12)
*/
package telemetry
