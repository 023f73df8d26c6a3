package promobs

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/leofalp/reago/patterns/react"
	"github.com/leofalp/reago/providers/observability"
	"github.com/leofalp/reago/providers/observability/slogobs"
	"github.com/leofalp/reago/providers/reasoning"
	"github.com/leofalp/reago/providers/tool"
)

func newObserver(reg *prometheus.Registry) *Observer {
	return New(reg, WithBase(slogobs.New(slogobs.WithOutput(io.Discard))))
}

func TestMetricName(t *testing.T) {
	if got := MetricName(observability.MetricToolCalls); got != "reago_tool_calls" {
		t.Errorf("MetricName() = %q", got)
	}
}

func TestCounter_KnownLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := newObserver(reg)
	ctx := context.Background()

	calls := o.Counter(observability.MetricToolCalls)
	calls.Add(ctx, 1, observability.String(observability.AttrToolName, "search"))
	calls.Add(ctx, 2, observability.String(observability.AttrToolName, "search"))
	calls.Add(ctx, 1, observability.String(observability.AttrToolName, "calculator"), observability.Int("ignored", 1))

	expected := `
# HELP reago_tool_calls_total reago counter reago.tool.calls
# TYPE reago_tool_calls_total counter
reago_tool_calls_total{tool_name="calculator"} 1
reago_tool_calls_total{tool_name="search"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "reago_tool_calls_total"); err != nil {
		t.Error(err)
	}
}

func TestCounter_UnknownMetricTakesFirstLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := newObserver(reg)
	c := o.Counter("custom.events")
	c.Add(context.Background(), 5, observability.String("kind", "a"))
	c.Add(context.Background(), 1) // missing label becomes ""

	vec := c.(*counter).vec
	if got := testutil.ToFloat64(vec.WithLabelValues("a")); got != 5 {
		t.Errorf("kind=a = %v", got)
	}
	if got := testutil.ToFloat64(vec.WithLabelValues("")); got != 1 {
		t.Errorf("kind='' = %v", got)
	}
}

func TestEpisode_UnregisteredToolNamesShareOneLabel(t *testing.T) {
	registry := tool.NewRegistry()
	if err := registry.Register("search", tool.Schema{}, func(context.Context, tool.Arguments) (any, error) {
		return "ok", nil
	}); err != nil {
		t.Fatal(err)
	}
	adapter := reasoning.NewScripted([]string{
		"Action: search\nAction Input: {}",
		"Action: made_up_1\nAction Input: {}",
		"Action: made_up_2\nAction Input: {}",
		"Action: made_up_3\nAction Input: {}",
		"Final Answer: done",
	})

	reg := prometheus.NewRegistry()
	c, err := react.New(registry, adapter, react.WithObserver(newObserver(reg)))
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.RunEpisode(context.Background(), "goal", react.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != react.Success {
		t.Fatalf("outcome = %s", res.Outcome)
	}

	expected := `
# HELP reago_tool_calls_total reago counter reago.tool.calls
# TYPE reago_tool_calls_total counter
reago_tool_calls_total{tool_name="search"} 1
reago_tool_calls_total{tool_name="unknown"} 3
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "reago_tool_calls_total"); err != nil {
		t.Error(err)
	}
	if n, err := testutil.GatherAndCount(reg, "reago_tool_errors_total"); err != nil || n != 1 {
		t.Errorf("tool error series = %d, %v; want 1", n, err)
	}
}

func TestHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := newObserver(reg)
	h := o.Histogram(observability.MetricEpisodeDuration)
	h.Record(context.Background(), 0.25, observability.String(observability.AttrEpisodeOutcome, "success"))
	h.Record(context.Background(), 1.5, observability.String(observability.AttrEpisodeOutcome, "aborted"))

	n, err := testutil.GatherAndCount(reg, "reago_episode_duration_seconds")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("series = %d, want 2", n)
	}
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := newObserver(reg)
	b := newObserver(reg)

	attr := observability.String(observability.AttrEpisodeOutcome, "success")
	a.Counter(observability.MetricEpisodeCount).Add(context.Background(), 1, attr)
	b.Counter(observability.MetricEpisodeCount).Add(context.Background(), 1, attr)

	vec := a.Counter(observability.MetricEpisodeCount).(*counter).vec
	if got := testutil.ToFloat64(vec.WithLabelValues("success")); got != 2 {
		t.Errorf("shared counter = %v, want 2", got)
	}
}

func TestObserver_DelegatesSpans(t *testing.T) {
	o := newObserver(prometheus.NewRegistry())
	ctx, span := o.StartSpan(context.Background(), "react.episode")
	if observability.SpanFromContext(ctx) != span {
		t.Error("span not attached to context")
	}
	span.End()
}
