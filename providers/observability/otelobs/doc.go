// Package otelobs sends reago spans to OpenTelemetry.
//
// [Observer] implements observability.Provider by starting real otel spans
// for the episode, reasoning and tool scopes, and delegating metrics and
// logs to a base provider. Log records gain trace_id and span_id attributes
// so they can be joined with exported traces.
//
// [InitTracer] installs an OTLP/HTTP exporter for command-line use:
//
//	shutdown, err := otelobs.InitTracer(ctx, otelobs.ExporterConfig{
//	    Endpoint:    "localhost:4318",
//	    ServiceName: "reago",
//	    Insecure:    true,
//	})
//	defer shutdown(context.Background())
package otelobs
