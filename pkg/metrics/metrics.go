package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordStage records one stage execution and its duration.
func (r *Registry) RecordStage(stage string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.StageRunsTotal.WithLabelValues(stage, status).Inc()
	r.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRows adds n rows with the given outcome ("accepted", "skipped", "malformed",
// "above_ceiling") for file ("edges" or "attributes").
func (r *Registry) RecordRows(file, outcome string, n int) {
	if n <= 0 {
		return
	}
	r.LoaderRowsTotal.WithLabelValues(file, outcome).Add(float64(n))
}

// GraphShape is the set of gauges refreshed after each rebuild.
type GraphShape struct {
	Threshold      float64
	Nodes          int
	Edges          int
	Singletons     int
	Clusters       int
	LargestCluster int
}

// UpdateGraph sets the graph gauges.
func (r *Registry) UpdateGraph(s GraphShape) {
	r.ActiveThreshold.Set(s.Threshold)
	r.ActiveNodes.Set(float64(s.Nodes))
	r.ActiveEdges.Set(float64(s.Edges))
	r.SingletonNodes.Set(float64(s.Singletons))
	r.Clusters.Set(float64(s.Clusters))
	r.LargestCluster.Set(float64(s.LargestCluster))
}

// UpdateViews replaces the per-view match gauges. Views missing from counts are
// removed so deleted views do not linger.
func (r *Registry) UpdateViews(counts map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ViewMatches.Reset()
	for id, n := range counts {
		r.ViewMatches.WithLabelValues(id).Set(float64(n))
	}
	r.ViewsTotal.Set(float64(len(counts)))
}

// WriteTextfile writes the current metric values in the Prometheus text format, for
// pickup by a node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
