package views

import (
	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

// RecordSource looks up attribute records by individual id.
type RecordSource interface {
	Lookup(id string) (*attributes.Record, bool)
}

// Classification is the result of matching nodes against views.
type Classification struct {
	// Membership maps a node to its matching view IDs in definition order. Nodes with
	// no record or no match are absent.
	Membership map[string][]string
	// Colors maps a node to the colour of its first matching view.
	Colors map[string]string
	// Counts maps every view ID to the number of nodes it matched.
	Counts map[string]int
	// Skipped counts nodes with no attribute record.
	Skipped int

	order []string
}

// Classify matches each node's record against every view. A node's colour is that of
// the first matching view in definition order; nodes without a record keep no views.
func Classify(nodes []string, records RecordSource, cats *attributes.Categories, views []*View, resolve graph.Resolver) *Classification {
	cl := &Classification{
		Membership: make(map[string][]string),
		Colors:     make(map[string]string),
		Counts:     make(map[string]int, len(views)),
		order:      make([]string, len(views)),
	}
	for i, v := range views {
		cl.Counts[v.ID] = 0
		cl.order[i] = v.ID
	}
	if resolve == nil {
		resolve = graph.NewResolver(graph.DefaultDelimiter)
	}

	for _, node := range nodes {
		rec, ok := records.Lookup(resolve(node))
		if !ok {
			cl.Skipped++
			continue
		}
		for _, v := range views {
			if !v.Match(cats, rec) {
				continue
			}
			if len(cl.Membership[node]) == 0 {
				cl.Colors[node] = v.Color
			}
			cl.Membership[node] = append(cl.Membership[node], v.ID)
			cl.Counts[v.ID]++
		}
	}
	return cl
}

// Classify runs Classify over the registry's views and stores the counts on them.
func (r *Registry) Classify(nodes []string, records RecordSource, resolve graph.Resolver) *Classification {
	cl := Classify(nodes, records, r.categories, r.views, resolve)
	for _, v := range r.views {
		v.Count = cl.Counts[v.ID]
	}
	return cl
}

// Views returns the view IDs node matched.
func (c *Classification) Views(node string) []string { return c.Membership[node] }

// Color returns node's display colour, DefaultColor when it matched nothing.
func (c *Classification) Color(node string) string {
	if col, ok := c.Colors[node]; ok {
		return col
	}
	return DefaultColor
}

// Empty returns the IDs of views that matched no node, in definition order.
func (c *Classification) Empty() []string {
	var out []string
	for _, id := range c.order {
		if c.Counts[id] == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Matched returns the number of nodes that matched at least one view.
func (c *Classification) Matched() int { return len(c.Membership) }

// Recolor refreshes node colours after views were recoloured, without re-matching.
func (c *Classification) Recolor(r *Registry) {
	for node, ids := range c.Membership {
		if v, ok := r.Get(ids[0]); ok {
			c.Colors[node] = v.Color
		}
	}
}
