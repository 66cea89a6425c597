package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	gauge := func(name, help string) prometheus.Gauge {
		return promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}

	r.ActiveNodes = gauge("seqnet_active_nodes", "Nodes with at least one edge under the threshold")
	r.ActiveEdges = gauge("seqnet_active_edges", "Edges under the threshold")
	r.SingletonNodes = gauge("seqnet_singleton_nodes", "Uploaded nodes with no edge under the threshold")
	r.Clusters = gauge("seqnet_clusters", "Connected components of the active graph")
	r.LargestCluster = gauge("seqnet_largest_cluster_size", "Node count of the largest cluster")
	r.ActiveThreshold = gauge("seqnet_threshold", "Distance threshold of the last build")
}

func (r *Registry) initViewMetrics() {
	r.ViewMatches = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seqnet_view_matches",
			Help: "Nodes matched per view at the last classification",
		},
		[]string{"view"},
	)

	r.ViewsTotal = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "seqnet_views",
		Help: "Defined views",
	})
}
