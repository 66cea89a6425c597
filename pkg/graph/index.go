package graph

import "github.com/RoaringBitmap/roaring/v2"

// Index-level accessors for algorithms that work on interned node indices.
// Bitmaps returned here are owned by the graph and must not be modified.

// IndexOf returns the interned index of id.
func (g *Graph) IndexOf(id string) (uint32, bool) {
	idx, ok := g.index[id]
	return idx, ok
}

// IDAt returns the node id for an interned index.
func (g *Graph) IDAt(idx uint32) string { return g.ids[idx] }

// NeighborSet returns the adjacency bitmap of the node at idx.
func (g *Graph) NeighborSet(idx uint32) *roaring.Bitmap { return g.adj[idx] }

// DegreeAt returns the degree of the node at idx.
func (g *Graph) DegreeAt(idx uint32) int { return int(g.adj[idx].GetCardinality()) }

// AllNodes returns a fresh bitmap containing every node index.
func (g *Graph) AllNodes() *roaring.Bitmap {
	all := roaring.New()
	if n := len(g.ids); n > 0 {
		all.AddRange(0, uint64(n))
	}
	return all
}
