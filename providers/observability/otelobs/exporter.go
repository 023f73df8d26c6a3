package otelobs

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ErrNoEndpoint is returned by InitTracer when no collector endpoint is set.
var ErrNoEndpoint = errors.New("otlp endpoint is required")

// ExporterConfig configures the OTLP/HTTP trace exporter.
type ExporterConfig struct {
	// Endpoint is the collector host:port, e.g. "localhost:4318".
	Endpoint string
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string
	// Insecure disables TLS.
	Insecure bool
}

// InitTracer builds a batching TracerProvider exporting over OTLP/HTTP and
// installs it as the global provider. The returned function flushes and
// shuts it down.
func InitTracer(ctx context.Context, cfg ExporterConfig) (func(context.Context) error, error) {
	tp, err := NewTracerProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// NewTracerProvider is InitTracer without touching the global provider.
func NewTracerProvider(ctx context.Context, cfg ExporterConfig) (*sdktrace.TracerProvider, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "reago"
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}
