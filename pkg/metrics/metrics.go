// Package metrics exports toast queue activity as Prometheus metrics.
//
// Metrics collected:
//   - toast_enqueued_total: Counter of enqueued toasts by type
//   - toast_dismissed_total: Counter of dismissed toasts by reason
//   - toast_active: Gauge of toasts in the queue, visible or not
//   - toast_paused: Gauge of toasts whose countdown is paused
//   - toast_lifetime_seconds: Histogram of time from enqueue to dismissal
//
// Example:
//
//	collector := metrics.New(metrics.WithRegistry(registry))
//	stop := collector.Observe(manager, nil)
//	defer stop()
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/toast/pkg/toast"
)

// Config configures the Prometheus collector.
type Config struct {
	// Namespace is the metrics namespace (default: "toast").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for toast lifetime.
	// Default: 0.5s to 5m.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the lifetime histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "toast",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 300},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records toast queue metrics.
type Collector struct {
	enqueued *prometheus.CounterVec
	dismiss  *prometheus.CounterVec
	active   prometheus.Gauge
	paused   prometheus.Gauge
	lifetime prometheus.Histogram
}

// New creates a Collector and registers its metrics.
// It panics if registration fails, like promauto.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Collector{
		enqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "enqueued_total",
			Help:        "Total number of toasts enqueued",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		dismiss: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dismissed_total",
			Help:        "Total number of toasts dismissed",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active",
			Help:        "Number of toasts in the queue",
			ConstLabels: config.ConstLabels,
		}),

		paused: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "paused",
			Help:        "Number of toasts with a paused countdown",
			ConstLabels: config.ConstLabels,
		}),

		lifetime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifetime_seconds",
			Help:        "Time from enqueue to dismissal in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Observe subscribes to m and records its events until the returned func
// is called. now supplies the dismissal time for the lifetime histogram and
// should match m's clock; nil means time.Now.
//
// The active and paused gauges start from m's current state, so m may
// already hold toasts when Observe is called.
func (c *Collector) Observe(m *toast.Manager, now func() time.Time) (stop func()) {
	if now == nil {
		now = time.Now
	}

	var (
		mu      sync.Mutex
		version uint64
		seeded  bool
	)
	// setGauges ignores snapshots older than the last one applied.
	setGauges := func(s toast.Snapshot) {
		if seeded && s.Version <= version {
			return
		}
		version, seeded = s.Version, true
		c.active.Set(float64(s.Total))
		c.paused.Set(float64(s.Paused))
	}

	stop = m.Subscribe(func(ev toast.Event) {
		mu.Lock()
		defer mu.Unlock()

		n := ev.Notification
		switch ev.Kind {
		case toast.EventEnqueued:
			c.enqueued.WithLabelValues(string(n.Type)).Inc()
		case toast.EventDismissed:
			c.dismiss.WithLabelValues(string(ev.Reason)).Inc()
			if !n.CreatedAt.IsZero() {
				c.lifetime.Observe(now().Sub(n.CreatedAt).Seconds())
			}
		}
		setGauges(ev.Snapshot)
	})

	snap := m.Snapshot()
	mu.Lock()
	setGauges(snap)
	mu.Unlock()

	return stop
}
