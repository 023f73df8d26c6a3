package otelobs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/leofalp/reago/providers/observability"
)

// InstrumentationName is the tracer name reago spans are created under.
const InstrumentationName = "github.com/leofalp/reago"

// Observer is an OpenTelemetry-backed observability.Provider.
type Observer struct {
	tracer trace.Tracer
	base   observability.Provider
}

// New returns an Observer creating spans from tp, or from the global
// TracerProvider when tp is nil. Metrics and logs go to base; a nil base
// discards them.
func New(tp trace.TracerProvider, base observability.Provider) *Observer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if base == nil {
		base = observability.Nop()
	}
	return &Observer{tracer: tp.Tracer(InstrumentationName), base: base}
}

var _ observability.Provider = (*Observer)(nil)

// StartSpan starts an otel span as a child of any span already in ctx.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	ctx, s := o.tracer.Start(ctx, name, trace.WithAttributes(convert(attrs)...))
	span := &otelSpan{span: s}
	return observability.ContextWithSpan(ctx, span), span
}

func (o *Observer) Counter(name string) observability.Counter     { return o.base.Counter(name) }
func (o *Observer) Histogram(name string) observability.Histogram { return o.base.Histogram(name) }

func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.base.Trace(ctx, msg, withSpanContext(ctx, attrs)...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.base.Debug(ctx, msg, withSpanContext(ctx, attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.base.Info(ctx, msg, withSpanContext(ctx, attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.base.Warn(ctx, msg, withSpanContext(ctx, attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.base.Error(ctx, msg, withSpanContext(ctx, attrs)...)
}

// withSpanContext appends the ids of the active otel span, if any.
func withSpanContext(ctx context.Context, attrs []observability.Attribute) []observability.Attribute {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return attrs
	}
	out := make([]observability.Attribute, len(attrs), len(attrs)+2)
	copy(out, attrs)
	return append(out,
		observability.String("trace_id", sc.TraceID().String()),
		observability.String("span_id", sc.SpanID().String()),
	)
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) End() { s.span.End() }

func (s *otelSpan) SetAttributes(attrs ...observability.Attribute) {
	s.span.SetAttributes(convert(attrs)...)
}

func (s *otelSpan) SetStatus(code observability.StatusCode, description string) {
	switch code {
	case observability.StatusOK:
		s.span.SetStatus(codes.Ok, description)
	case observability.StatusError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

func (s *otelSpan) RecordError(err error) {
	if err != nil {
		s.span.RecordError(err)
	}
}

func (s *otelSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(convert(attrs)...))
}

func convert(attrs []observability.Attribute) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, keyValue(a))
	}
	return out
}

func keyValue(a observability.Attribute) attribute.KeyValue {
	switch v := a.Value.(type) {
	case string:
		return attribute.String(a.Key, v)
	case int:
		return attribute.Int(a.Key, v)
	case int64:
		return attribute.Int64(a.Key, v)
	case float64:
		return attribute.Float64(a.Key, v)
	case bool:
		return attribute.Bool(a.Key, v)
	case time.Duration:
		return attribute.Int64(a.Key+"_ms", v.Milliseconds())
	case []string:
		return attribute.StringSlice(a.Key, v)
	case error:
		return attribute.String(a.Key, v.Error())
	case fmt.Stringer:
		return attribute.String(a.Key, v.String())
	default:
		return attribute.String(a.Key, fmt.Sprint(v))
	}
}
