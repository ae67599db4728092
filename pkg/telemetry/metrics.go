package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/vtree/pkg/reconcile"
)

// MetricsConfig configures the Prometheus metrics sink.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics sink.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the flush duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a reconcile.Metrics backed by Prometheus collectors.
type Metrics struct {
	nodesCreated        *prometheus.CounterVec
	componentsCreated   *prometheus.CounterVec
	componentRenders    *prometheus.CounterVec
	componentsUnmounted *prometheus.CounterVec
	failures            *prometheus.CounterVec
	flushBatch          prometheus.Histogram
	flushDuration       prometheus.Histogram
	pooledNodes         prometheus.Gauge
	pooledComponents    prometheus.Gauge
	pendingRenders      prometheus.Gauge
}

var _ reconcile.Metrics = (*Metrics)(nil)

// Collectors are registered once per registry. Registering the same names
// twice panics, and several runtimes usually share one registry.
var (
	registered   = map[prometheus.Registerer]*Metrics{}
	registeredMu sync.Mutex
)

func newMetrics(config MetricsConfig) *Metrics {
	factory := promauto.With(config.Registry)

	return &Metrics{
		nodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "nodes_created_total",
			Help:        "Host nodes obtained for element descriptions, by tag and source",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "source"}),

		componentsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_created_total",
			Help:        "Component instances created, by component and source",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "source"}),

		componentRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "component_renders_total",
			Help:        "Component render passes, by component and render mode",
			ConstLabels: config.ConstLabels,
		}, []string{"component", "mode"}),

		componentsUnmounted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_unmounted_total",
			Help:        "Component instances unmounted, by component",
			ConstLabels: config.ConstLabels,
		}, []string{"component"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "failures_total",
			Help:        "Runtime entry points that returned an error, by operation",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		flushBatch: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_batch_size",
			Help:        "Dirty components processed per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Time spent processing one flush batch",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		pooledNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pooled_nodes",
			Help:        "Host nodes waiting in the recycling pool",
			ConstLabels: config.ConstLabels,
		}),

		pooledComponents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pooled_components",
			Help:        "Component instances waiting in the recycling pool",
			ConstLabels: config.ConstLabels,
		}),

		pendingRenders: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pending_renders",
			Help:        "Components queued for the next flush",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Prometheus returns a metrics sink for reconcile.WithMetrics.
//
// Metrics collected:
//   - vtree_nodes_created_total: host nodes by tag and source (new, pool)
//   - vtree_components_created_total: instances by component and source
//   - vtree_component_renders_total: render passes by component and mode
//   - vtree_components_unmounted_total: unmounts by component
//   - vtree_failures_total: failed entry points by operation
//   - vtree_flush_batch_size: dirty components per flush
//   - vtree_flush_duration_seconds: flush processing time
//   - vtree_pooled_nodes, vtree_pooled_components, vtree_pending_renders:
//     gauges updated by Observe
//
// The first call for a registry creates the collectors; later calls with
// the same registry return the same sink and ignore the other options.
//
// Example:
//
//	rt := reconcile.New(
//	    reconcile.WithMetrics(telemetry.Prometheus(
//	        telemetry.WithNamespace("myapp"),
//	    )),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	registeredMu.Lock()
	defer registeredMu.Unlock()
	if m, ok := registered[config.Registry]; ok {
		return m
	}
	m := newMetrics(config)
	registered[config.Registry] = m
	return m
}

func source(recycled bool) string {
	if recycled {
		return "pool"
	}
	return "new"
}

// NodeCreated implements reconcile.Metrics.
func (m *Metrics) NodeCreated(tag string, recycled bool) {
	m.nodesCreated.WithLabelValues(tag, source(recycled)).Inc()
}

// ComponentCreated implements reconcile.Metrics.
func (m *Metrics) ComponentCreated(name string, recycled bool) {
	m.componentsCreated.WithLabelValues(name, source(recycled)).Inc()
}

// ComponentRendered implements reconcile.Metrics.
func (m *Metrics) ComponentRendered(name string, mode reconcile.RenderMode) {
	m.componentRenders.WithLabelValues(name, mode.String()).Inc()
}

// ComponentUnmounted implements reconcile.Metrics.
func (m *Metrics) ComponentUnmounted(name string) {
	m.componentsUnmounted.WithLabelValues(name).Inc()
}

// Flushed implements reconcile.Metrics.
func (m *Metrics) Flushed(batch int, elapsed time.Duration) {
	m.flushBatch.Observe(float64(batch))
	m.flushDuration.Observe(elapsed.Seconds())
}

// Failed implements reconcile.Metrics.
func (m *Metrics) Failed(op string) {
	m.failures.WithLabelValues(op).Inc()
}

// Observe copies the pool and queue sizes from a runtime snapshot into the
// gauges. Call it after Render or Flush; the runtime does not push them.
func (m *Metrics) Observe(st reconcile.Stats) {
	m.pooledNodes.Set(float64(st.PooledNodes))
	m.pooledComponents.Set(float64(st.PooledComponents))
	m.pendingRenders.Set(float64(st.Pending))
}
