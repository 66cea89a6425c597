package session

import (
	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/geo"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
	"github.com/dd0wney/cluso-seqnet/pkg/metrics"
	"github.com/dd0wney/cluso-seqnet/pkg/stats"
)

// stage times fn, logs it and records it in metrics.
func (s *Session) stage(name string, fn func() []logging.Field) {
	timer := logging.StartStage(s.log, name, logging.Generation(s.generation))
	fields := fn()
	elapsed := timer.Done(fields...)
	s.metrics.RecordStage(name, nil, elapsed)
}

// build runs graph → cluster → stats → classify → geo for threshold t.
func (s *Session) build(t float64) *Result {
	r := &Result{Generation: s.generation, Threshold: t}

	s.stage("build", func() []logging.Field {
		r.Graph = graph.Build(s.edges.Edges, t)
		return []logging.Field{logging.Threshold(t), logging.Nodes(r.Graph.NodeCount()), logging.Edges(r.Graph.EdgeCount())}
	})
	s.stage("cluster", func() []logging.Field {
		r.Clusters = cluster.Compute(r.Graph).WithUniverse(s.edges.Universe)
		if s.log.GetLevel() == logging.DebugLevel {
			if err := cluster.Verify(r.Graph, r.Clusters); err != nil {
				s.log.Error("cluster cross-check failed", logging.Error(err), logging.Generation(s.generation))
			}
		}
		r.Visible = s.visible(r.Clusters)
		return []logging.Field{logging.Clusters(r.Clusters.Len()), logging.Int("singletons", len(r.Clusters.Singletons))}
	})
	s.stage("stats", func() []logging.Field {
		r.Stats = stats.Compute(r.Clusters, r.Graph, stats.WithUniverse(len(s.edges.Universe)))
		return []logging.Field{logging.String("transitivity", r.Stats.Transitivity.String())}
	})
	s.classify(r)

	s.metrics.UpdateGraph(metricsShape(r))
	return r
}

// classify refreshes view membership and the zip roll-up on r.
func (s *Session) classify(r *Result) {
	if s.table == nil {
		r.Classification = nil
		r.Zips = map[string]*geo.ZipAggregate{}
		return
	}

	s.stage("classify", func() []logging.Field {
		r.Classification = s.views.Classify(r.Graph.Nodes(), s.table, s.opts.Resolver)
		for _, id := range r.Classification.Empty() {
			s.log.Warn("view matched no nodes", logging.View(id))
		}
		return []logging.Field{logging.Int("views", s.views.Len()), logging.Int("matched", r.Classification.Matched())}
	})
	s.metrics.UpdateViews(r.Classification.Counts)

	if _, ok := s.table.Categories.Zip(); !ok {
		r.Zips = map[string]*geo.ZipAggregate{}
		return
	}
	s.stage("geo", func() []logging.Field {
		r.Zips = geo.AggregateByZip(r.Clusters, s.table, s.table.Categories, s.opts.Resolver)
		return []logging.Field{logging.Int("zips", len(r.Zips))}
	})
}

// reclassify reruns classification on the current result after a view change.
func (s *Session) reclassify() {
	if s.current == nil {
		return
	}
	next := *s.current
	s.classify(&next)
	s.current = &next
}

func metricsShape(r *Result) metrics.GraphShape {
	return metrics.GraphShape{
		Threshold:      r.Threshold,
		Nodes:          r.Graph.NodeCount(),
		Edges:          r.Graph.EdgeCount(),
		Singletons:     len(r.Clusters.Singletons),
		Clusters:       r.Clusters.Len(),
		LargestCluster: r.Clusters.MaxSize(),
	}
}
