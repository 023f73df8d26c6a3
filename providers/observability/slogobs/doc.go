// Package slogobs implements observability.Provider with log/slog.
//
// Spans and metric updates become DEBUG records, so a single handler
// configured with [WithFormat] and [WithLevel] (or REAGO_LOG_FORMAT and
// REAGO_LOG_LEVEL) controls everything the controller emits.
package slogobs
