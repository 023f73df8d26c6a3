// Package promobs exports reago metrics to Prometheus.
//
// [Observer] implements observability.Provider: counters and histograms
// become CounterVec and HistogramVec collectors on a prometheus.Registerer,
// while spans and logs are delegated to a base provider (usually slogobs).
// Metric names are converted to Prometheus form, so "reago.tool.calls" is
// exported as reago_tool_calls_total and "reago.tool.duration" as
// reago_tool_duration_seconds.
package promobs
