package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/reago/providers/observability"
	"github.com/leofalp/reago/providers/observability/otelobs"
	"github.com/leofalp/reago/providers/observability/promobs"
	"github.com/leofalp/reago/providers/observability/slogobs"
)

// observerStack is the provider built from the command flags plus the
// shutdown hooks of the exporters behind it.
type observerStack struct {
	provider observability.Provider
	logger   *slog.Logger
	closers  []func(context.Context) error
}

// buildObserver layers slogobs, then promobs when a metrics address is
// set, then otelobs when an OTLP endpoint is set.
func (a *app) buildObserver(ctx context.Context) (*observerStack, error) {
	opts := []slogobs.Option{
		slogobs.WithOutput(a.errOut),
		slogobs.WithLevel(slogobs.ParseLogLevel(a.v.GetString(flagLogLevel))),
		slogobs.WithFormat(slogobs.ParseFormat(a.v.GetString(flagLogFormat))),
	}
	if a.v.GetBool(flagNoColor) {
		opts = append(opts, slogobs.WithColors(false))
	}
	base := slogobs.New(opts...)
	stack := &observerStack{provider: base, logger: base.Logger()}

	if addr := a.v.GetString(flagMetricsAddr); addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		stop, err := serveMetrics(addr, reg, a.v.GetDuration(flagMetricsLinger))
		if err != nil {
			return nil, err
		}
		base.Info(ctx, "serving metrics", observability.String("addr", addr))
		stack.closers = append(stack.closers, stop)
		stack.provider = promobs.New(reg, promobs.WithBase(stack.provider))
	}

	if endpoint := a.v.GetString(flagOTLPEndpoint); endpoint != "" {
		tp, err := otelobs.NewTracerProvider(ctx, otelobs.ExporterConfig{
			Endpoint:    endpoint,
			ServiceName: "reago",
			Insecure:    a.v.GetBool(flagOTLPInsecure),
		})
		if err != nil {
			stack.close(ctx)
			return nil, err
		}
		stack.closers = append(stack.closers, tp.Shutdown)
		stack.provider = otelobs.New(tp, stack.provider)
	}
	return stack, nil
}

// close runs the shutdown hooks in reverse order.
func (s *observerStack) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// serveMetrics exposes reg on addr under /metrics. The returned function
// waits for linger, then stops the server.
func serveMetrics(addr string, reg *prometheus.Registry, linger time.Duration) (func(context.Context) error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.Serve(ln) }()

	return func(ctx context.Context) error {
		if linger > 0 {
			select {
			case <-time.After(linger):
			case <-ctx.Done():
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}, nil
}
