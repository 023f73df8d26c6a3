// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging across reago.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. Callers propagate an active
// [Provider] and [Span] through a [context.Context] using [ContextWithObserver]
// and [ContextWithSpan]; they can be retrieved with [ObserverFromContext] and
// [SpanFromContext].
//
// Backends live in sub-packages: slogobs (log/slog), promobs (Prometheus
// metrics) and otelobs (OpenTelemetry spans). The latter two wrap a base
// Provider and override only the concern they own.
package observability
