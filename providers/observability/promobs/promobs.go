package promobs

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/reago/providers/observability"
)

// labelKeys fixes the label set of the metrics the controller emits.
// Metrics not listed here take their labels from the first update.
var labelKeys = map[string][]string{
	observability.MetricEpisodeCount:      {observability.AttrEpisodeOutcome},
	observability.MetricEpisodeDuration:   {observability.AttrEpisodeOutcome},
	observability.MetricStepCount:         {observability.AttrStepKind},
	observability.MetricToolCalls:         {observability.AttrToolName},
	observability.MetricToolErrors:        {observability.AttrToolName, observability.AttrToolErrorKind},
	observability.MetricToolDuration:      {observability.AttrToolName},
	observability.MetricMalformedOutputs:  {observability.AttrParseReason},
	observability.MetricReasoningDuration: {},
}

var nameReplacer = strings.NewReplacer(".", "_", "-", "_", " ", "_", "/", "_")

// Observer is a Prometheus-backed observability.Provider.
type Observer struct {
	observability.Tracer
	observability.Logger

	reg     prometheus.Registerer
	buckets []float64

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

// Option configures an Observer.
type Option func(*Observer)

// WithBase sets the provider that receives spans and logs.
func WithBase(base observability.Provider) Option {
	return func(o *Observer) {
		if base != nil {
			o.Tracer = base
			o.Logger = base
		}
	}
}

// WithBuckets sets the histogram buckets, in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *Observer) {
		if len(buckets) > 0 {
			o.buckets = slices.Clone(buckets)
		}
	}
}

// New returns an Observer registering its collectors on reg, or on
// prometheus.DefaultRegisterer when reg is nil. Without WithBase, spans and
// logs are discarded.
func New(reg prometheus.Registerer, opts ...Option) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	base := observability.Nop()
	o := &Observer{
		Tracer:     base,
		Logger:     base,
		reg:        reg,
		buckets:    prometheus.DefBuckets,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

var _ observability.Provider = (*Observer)(nil)

// Counter returns the counter for name, registering it on first use.
func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.counters[name]; ok {
		return c
	}
	c := &counter{o: o, name: name}
	if keys, ok := labelKeys[name]; ok {
		c.init(keys)
	}
	o.counters[name] = c
	return c
}

// Histogram returns the histogram for name, registering it on first use.
// Values are expected in seconds.
func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()
	if h, ok := o.histograms[name]; ok {
		return h
	}
	h := &histogram{o: o, name: name}
	if keys, ok := labelKeys[name]; ok {
		h.init(keys)
	}
	o.histograms[name] = h
	return h
}

type counter struct {
	o    *Observer
	name string

	once sync.Once
	keys []string
	vec  *prometheus.CounterVec
}

func (c *counter) init(keys []string) {
	c.once.Do(func() {
		c.keys = keys
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricName(c.name) + "_total",
			Help: "reago counter " + c.name,
		}, labelNames(keys))
		c.vec = register(c.o, vec)
	})
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.init(attrKeys(attrs))
	c.vec.WithLabelValues(labelValues(c.keys, attrs)...).Add(float64(value))
}

type histogram struct {
	o    *Observer
	name string

	once sync.Once
	keys []string
	vec  *prometheus.HistogramVec
}

func (h *histogram) init(keys []string) {
	h.once.Do(func() {
		h.keys = keys
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricName(h.name) + "_seconds",
			Help:    "reago histogram " + h.name,
			Buckets: h.o.buckets,
		}, labelNames(keys))
		h.vec = register(h.o, vec)
	})
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	h.init(attrKeys(attrs))
	h.vec.WithLabelValues(labelValues(h.keys, attrs)...).Observe(value)
}

// register adds c to the registry, reusing an identical collector that is
// already registered. Other failures are logged and c is used unregistered.
func register[C prometheus.Collector](o *Observer, c C) C {
	err := o.reg.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing
		}
	}
	o.Logger.Error(context.Background(), "prometheus registration failed",
		observability.Error(fmt.Errorf("register collector: %w", err)))
	return c
}

// MetricName converts a dotted metric name to Prometheus form.
func MetricName(name string) string {
	return nameReplacer.Replace(name)
}

func labelNames(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = MetricName(k)
	}
	return out
}

func attrKeys(attrs []observability.Attribute) []string {
	keys := make([]string, 0, len(attrs))
	for _, a := range attrs {
		keys = append(keys, a.Key)
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// labelValues picks the value of each key from attrs; missing keys get "".
func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		for _, a := range attrs {
			if a.Key == k {
				values[i] = fmt.Sprint(a.Value)
				break
			}
		}
	}
	return values
}
