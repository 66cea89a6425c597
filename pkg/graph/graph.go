// Package graph builds the undirected, threshold-filtered similarity graph.
//
// Node ids are interned to dense uint32 indices in first-seen order and each adjacency
// set is a roaring bitmap of neighbour indices, so intersections used by triangle
// counting are cheap. String-keyed accessors expose the same data by node id.
package graph

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Graph is the active graph for one threshold. It is immutable once built.
type Graph struct {
	threshold float64

	ids   []string
	index map[string]uint32
	adj   []*roaring.Bitmap

	edges     []Edge
	edgeIndex map[string]int
}

// Build filters edges by distance < threshold (strict) and links both endpoints of
// every accepted edge. Self-loops are dropped; if a key repeats, the first occurrence
// wins. Node and edge order follow input order.
func Build(edges []Edge, threshold float64) *Graph {
	g := &Graph{
		threshold: threshold,
		index:     make(map[string]uint32),
		edgeIndex: make(map[string]int),
	}

	for _, e := range edges {
		if !(e.Distance < threshold) || e.Source == e.Target {
			continue
		}
		key := e.Key()
		if _, dup := g.edgeIndex[key]; dup {
			continue
		}

		u := g.intern(e.Source)
		v := g.intern(e.Target)
		g.adj[u].Add(v)
		g.adj[v].Add(u)

		g.edgeIndex[key] = len(g.edges)
		g.edges = append(g.edges, e)
	}

	return g
}

func (g *Graph) intern(id string) uint32 {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := uint32(len(g.ids))
	g.ids = append(g.ids, id)
	g.index[id] = idx
	g.adj = append(g.adj, roaring.New())
	return idx
}

// Threshold returns the cutoff the graph was built with.
func (g *Graph) Threshold() float64 { return g.threshold }

// NodeCount returns the number of active nodes.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of active edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns active node ids in first-seen order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// HasNode reports whether id has at least one active edge.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Degree returns the size of id's adjacency set, or 0 for an inactive node.
func (g *Graph) Degree(id string) int {
	idx, ok := g.index[id]
	if !ok {
		return 0
	}
	return int(g.adj[idx].GetCardinality())
}

// Neighbors returns id's adjacent node ids in first-seen order.
func (g *Graph) Neighbors(id string) []string {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, g.adj[idx].GetCardinality())
	it := g.adj[idx].Iterator()
	for it.HasNext() {
		out = append(out, g.ids[it.Next()])
	}
	return out
}

// Edges returns active edges in input order. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Edge looks up an active edge by canonical key.
func (g *Graph) Edge(key string) (Edge, bool) {
	i, ok := g.edgeIndex[key]
	if !ok {
		return Edge{}, false
	}
	return g.edges[i], true
}

// HasEdge reports whether a and b are directly connected.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.edgeIndex[Key(a, b)]
	return ok
}

// Adjacency returns a copy of the adjacency sets keyed by node id.
func (g *Graph) Adjacency() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(g.ids))
	for idx, id := range g.ids {
		set := make(map[string]struct{}, g.adj[idx].GetCardinality())
		it := g.adj[idx].Iterator()
		for it.HasNext() {
			set[g.ids[it.Next()]] = struct{}{}
		}
		out[id] = set
	}
	return out
}

// ActiveEdges returns a copy of the active edges keyed by canonical key.
func (g *Graph) ActiveEdges() map[string]Edge {
	out := make(map[string]Edge, len(g.edges))
	for _, e := range g.edges {
		out[e.Key()] = e
	}
	return out
}
