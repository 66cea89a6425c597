package session

import (
	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/geo"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
	"github.com/dd0wney/cluso-seqnet/pkg/stats"
	"github.com/dd0wney/cluso-seqnet/pkg/views"
)

// Result is everything derived from one threshold. It is not modified after it is
// returned; view edits install a copy with a new Classification and Zips as the
// current result.
type Result struct {
	Generation string
	Threshold  float64

	Graph    *graph.Graph
	Clusters *cluster.Set
	// Visible is Clusters narrowed by the size filters, ascending by size.
	Visible []*cluster.Cluster
	Stats   stats.Stats

	// Classification is nil without an attribute table.
	Classification *views.Classification
	// Zips is empty unless a zip category is flagged.
	Zips map[string]*geo.ZipAggregate
}

// Color returns the display colour of a node.
func (r *Result) Color(node string) string {
	if r.Classification == nil {
		return views.DefaultColor
	}
	return r.Classification.Color(node)
}
