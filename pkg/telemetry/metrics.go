package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for vpkg. A nil *Metrics or one built from a
// disabled config records nothing.
type Metrics struct {
	config MetricsConfig

	// Plugin metrics
	hookCalls       *prometheus.CounterVec
	hookDuration    *prometheus.HistogramVec
	packagesFound   *prometheus.GaugeVec
	pluginsAccepted prometheus.Gauge

	// Detection metrics
	detections     *prometheus.CounterVec
	snapshotsSaved prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		hookCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plugin_hook_calls_total",
				Help:      "Total number of virtual package hook invocations",
			},
			[]string{"plugin", "status"},
		),
		hookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "plugin_hook_duration_seconds",
				Help:      "Duration of virtual package hook invocations in seconds",
				Buckets:   buckets,
			},
			[]string{"plugin"},
		),
		packagesFound: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "virtual_packages_detected",
				Help:      "Number of virtual packages reported by the last hook invocation",
			},
			[]string{"plugin"},
		),
		pluginsAccepted: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "plugins_registered",
				Help:      "Number of plugins currently registered",
			},
		),
		detections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detections_total",
				Help:      "Total number of detection runs",
			},
			[]string{"status"},
		),
		snapshotsSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshots_saved_total",
				Help:      "Total number of detection snapshots persisted",
			},
		),
	}

	registry.MustRegister(
		m.hookCalls,
		m.hookDuration,
		m.packagesFound,
		m.pluginsAccepted,
		m.detections,
		m.snapshotsSaved,
	)

	return m, nil
}

// Registry returns the underlying Prometheus registry, or nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordHookCall records one hook invocation with its outcome and duration.
func (m *Metrics) RecordHookCall(plugin, status string, duration time.Duration) {
	if m == nil || m.hookCalls == nil {
		return
	}
	m.hookCalls.WithLabelValues(plugin, status).Inc()
	m.hookDuration.WithLabelValues(plugin).Observe(duration.Seconds())
}

// SetPackagesDetected sets the number of records a plugin reported.
func (m *Metrics) SetPackagesDetected(plugin string, count int) {
	if m == nil || m.packagesFound == nil {
		return
	}
	m.packagesFound.WithLabelValues(plugin).Set(float64(count))
}

// SetPluginsRegistered sets the registered plugin count.
func (m *Metrics) SetPluginsRegistered(count int) {
	if m == nil || m.pluginsAccepted == nil {
		return
	}
	m.pluginsAccepted.Set(float64(count))
}

// RecordDetection records a completed detection run.
func (m *Metrics) RecordDetection(status string) {
	if m == nil || m.detections == nil {
		return
	}
	m.detections.WithLabelValues(status).Inc()
}

// RecordSnapshotSaved increments the persisted snapshot counter.
func (m *Metrics) RecordSnapshotSaved() {
	if m == nil || m.snapshotsSaved == nil {
		return
	}
	m.snapshotsSaved.Inc()
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Serve exposes the metrics endpoint until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context) error {
	if m == nil || !m.config.Enabled {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
