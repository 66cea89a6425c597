// Package geo rolls cluster membership up by the zip-flagged attribute category.
package geo

import (
	"sort"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

// RecordSource looks up attribute records by individual id.
type RecordSource interface {
	Lookup(id string) (*attributes.Record, bool)
}

// ZipAggregate is the cluster make-up of one zip value.
type ZipAggregate struct {
	Zip           string
	IndividualIDs map[string]struct{}
	// ClusterCounts maps a cluster ID to the number of its nodes in this zip.
	ClusterCounts map[int]int
}

// Individuals returns the number of distinct individuals seen in the zip.
func (z *ZipAggregate) Individuals() int { return len(z.IndividualIDs) }

// DominantClusters returns cluster IDs ordered by node count, highest first, ties by ID.
func (z *ZipAggregate) DominantClusters() []int {
	ids := make([]int, 0, len(z.ClusterCounts))
	for id := range z.ClusterCounts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := z.ClusterCounts[ids[i]], z.ClusterCounts[ids[j]]
		if ci != cj {
			return ci > cj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// FillColor returns the choropleth colour for the zip's individual count.
func (z *ZipAggregate) FillColor() string { return FillColor(z.Individuals()) }

// FillColor buckets an individual count into a sequential blue scale.
func FillColor(individuals int) string {
	switch {
	case individuals > 20:
		return "#08519c"
	case individuals > 15:
		return "#3182bd"
	case individuals > 10:
		return "#6baed6"
	case individuals > 5:
		return "#9ecae1"
	case individuals > 1:
		return "#c6dbef"
	default:
		return "#eff3ff"
	}
}

// AggregateByZip visits every node of every cluster, resolves its zip through its
// individual's record and counts it against that zip. Without a zip category the
// result is empty. Nodes with no record or an empty zip are ignored.
func AggregateByZip(set *cluster.Set, records RecordSource, cats *attributes.Categories, resolve graph.Resolver) map[string]*ZipAggregate {
	out := make(map[string]*ZipAggregate)
	zipCat, ok := cats.Zip()
	if !ok || set == nil {
		return out
	}
	if resolve == nil {
		resolve = graph.NewResolver(graph.DefaultDelimiter)
	}

	for _, c := range set.Clusters {
		for _, node := range c.Members {
			individual := resolve(node)
			rec, ok := records.Lookup(individual)
			if !ok {
				continue
			}
			zip := rec.Get(zipCat.Name)
			if zip == "" {
				continue
			}
			agg, ok := out[zip]
			if !ok {
				agg = &ZipAggregate{
					Zip:           zip,
					IndividualIDs: make(map[string]struct{}),
					ClusterCounts: make(map[int]int),
				}
				out[zip] = agg
			}
			agg.IndividualIDs[individual] = struct{}{}
			agg.ClusterCounts[c.ID]++
		}
	}
	return out
}

// Sorted returns aggregates ordered by zip value.
func Sorted(aggs map[string]*ZipAggregate) []*ZipAggregate {
	out := make([]*ZipAggregate, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zip < out[j].Zip })
	return out
}
