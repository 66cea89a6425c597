// Package stats aggregates cluster counts and edge/degree data into graph-level and
// cluster-level summaries. Degenerate results are reported as not-applicable Measures.
package stats

import (
	"strconv"

	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

// Stats summarises one graph, or one cluster of it.
type Stats struct {
	ClusterCount  int
	ClusterMedian Measure
	ClusterMean   Measure

	Triangles    int
	Triples      float64
	Transitivity Measure

	MeanDistance   Measure
	MedianDistance Measure

	MeanDegree   Measure
	MedianDegree Measure

	Assortativity Measure

	NodeCount      int
	EdgeCount      int
	SingletonCount int
}

type options struct {
	universe int
}

// Option configures Compute.
type Option func(*options)

// WithUniverse sets the number of uploaded nodes so SingletonCount can be derived.
func WithUniverse(n int) Option {
	return func(o *options) { o.universe = n }
}

// Compute summarises the whole active graph.
func Compute(set *cluster.Set, g *graph.Graph, opts ...Option) Stats {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := Stats{
		ClusterCount:  set.Len(),
		ClusterMedian: Median(set.Sizes),
		ClusterMean:   Mean(set.Sizes),
		NodeCount:     g.NodeCount(),
		EdgeCount:     g.EdgeCount(),
	}
	for _, c := range set.Clusters {
		s.Triangles += c.Triangles
		s.Triples += c.Triples
	}
	s.Transitivity = Ratio(s.Triangles, s.Triples)

	if o.universe > s.NodeCount {
		s.SingletonCount = o.universe - s.NodeCount
	} else if len(set.Singletons) > 0 {
		s.SingletonCount = len(set.Singletons)
	}

	degrees := make([]int, 0, g.NodeCount())
	for _, id := range g.Nodes() {
		degrees = append(degrees, g.Degree(id))
	}
	edgeSummary(&s, g, g.Edges(), degrees)
	return s
}

// ForCluster summarises a single cluster, restricted to its member edges.
func ForCluster(c *cluster.Cluster, g *graph.Graph) Stats {
	s := Stats{
		ClusterCount:  1,
		ClusterMedian: Of(float64(c.Size)),
		ClusterMean:   Of(float64(c.Size)),
		Triangles:     c.Triangles,
		Triples:       c.Triples,
		Transitivity:  Ratio(c.Triangles, c.Triples),
		NodeCount:     c.Size,
		EdgeCount:     c.Edges,
	}

	edges := make([]graph.Edge, 0, len(c.EdgeKeys))
	for _, key := range c.EdgeKeys {
		if e, ok := g.Edge(key); ok {
			edges = append(edges, e)
		}
	}
	degrees := make([]int, 0, len(c.Members))
	for _, id := range c.Members {
		degrees = append(degrees, g.Degree(id))
	}
	edgeSummary(&s, g, edges, degrees)
	return s
}

func edgeSummary(s *Stats, g *graph.Graph, edges []graph.Edge, degrees []int) {
	distances := make([]float64, len(edges))
	src := make([]int, len(edges))
	tgt := make([]int, len(edges))
	for i, e := range edges {
		distances[i] = e.Distance
		src[i] = g.Degree(e.Source)
		tgt[i] = g.Degree(e.Target)
	}

	s.MeanDistance = Mean(distances)
	s.MedianDistance = Median(distances)
	s.MeanDegree = Mean(degrees)
	s.MedianDegree = Median(degrees)
	s.Assortativity = Pearson(src, tgt)
}

// Row is one labelled line of a rendered summary.
type Row struct {
	Label string
	Value string
}

// Rows renders the summary in display order.
func (s Stats) Rows() []Row {
	return []Row{
		{"Nodes", strconv.Itoa(s.NodeCount)},
		{"Edges", strconv.Itoa(s.EdgeCount)},
		{"Singletons", strconv.Itoa(s.SingletonCount)},
		{"Clusters", strconv.Itoa(s.ClusterCount)},
		{"Cluster size median", s.ClusterMedian.Format(0)},
		{"Cluster size mean", s.ClusterMean.Format(2)},
		{"Triangles", strconv.Itoa(s.Triangles)},
		{"Triples", Of(s.Triples).Format(2)},
		{"Transitivity", s.Transitivity.Format(4)},
		{"Mean pairwise distance", s.MeanDistance.Format(4)},
		{"Median pairwise distance", s.MedianDistance.Format(4)},
		{"Mean node degree", s.MeanDegree.Format(2)},
		{"Median node degree", s.MedianDegree.Format(0)},
		{"Assortativity", s.Assortativity.Format(4)},
	}
}
