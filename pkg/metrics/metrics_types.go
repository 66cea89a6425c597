package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every seqnet metric on a private Prometheus registry.
type Registry struct {
	// Pipeline stages (load, build, cluster, stats, classify, geo, export)
	StageRunsTotal *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec

	// Loader
	LoaderRowsTotal *prometheus.CounterVec

	// Graph shape at the last completed build
	ActiveNodes     prometheus.Gauge
	ActiveEdges     prometheus.Gauge
	SingletonNodes  prometheus.Gauge
	Clusters        prometheus.Gauge
	LargestCluster  prometheus.Gauge
	ActiveThreshold prometheus.Gauge

	// Views
	ViewMatches *prometheus.GaugeVec
	ViewsTotal  prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.initPipelineMetrics()
	r.initGraphMetrics()
	r.initViewMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
