// Package cluster partitions the active graph into connected components and counts
// per-component structure (triangles, triples, edges).
package cluster

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

// Compute partitions g into clusters.
//
// Seeds are taken in node interning order and each component is explored with an
// explicit LIFO stack, so the result is reproducible for identical input.
func Compute(g *graph.Graph) *Set {
	set := &Set{
		Distribution: make(map[int]int),
		byNode:       make(map[string]int, g.NodeCount()),
	}

	unvisited := g.AllNodes()
	for !unvisited.IsEmpty() {
		seed := unvisited.Minimum()
		unvisited.Remove(seed)
		set.Clusters = append(set.Clusters, explore(g, seed, unvisited))
	}

	sort.SliceStable(set.Clusters, func(i, j int) bool {
		a, b := set.Clusters[i], set.Clusters[j]
		if a.Size != b.Size {
			return a.Size < b.Size
		}
		return a.Seed < b.Seed
	})

	set.Sizes = make([]int, len(set.Clusters))
	for i, c := range set.Clusters {
		c.ID = i
		set.Sizes[i] = c.Size
		set.Distribution[c.Size]++
		for _, id := range c.Members {
			set.byNode[id] = i
		}
	}

	return set
}

// explore collects the component containing seed, removing its nodes from unvisited.
func explore(g *graph.Graph, seed uint32, unvisited *roaring.Bitmap) *Cluster {
	members := roaring.New()
	members.Add(seed)
	order := []uint32{seed}

	stack := g.NeighborSet(seed).ToArray()
	for len(stack) > 0 {
		n := len(stack) - 1
		node := stack[n]
		stack = stack[:n]

		if !unvisited.CheckedRemove(node) {
			continue
		}
		members.Add(node)
		order = append(order, node)

		it := g.NeighborSet(node).Iterator()
		for it.HasNext() {
			if next := it.Next(); unvisited.Contains(next) {
				stack = append(stack, next)
			}
		}
	}

	c := &Cluster{
		Seed:    g.IDAt(seed),
		Members: make([]string, len(order)),
		Size:    len(order),
		members: members,
	}
	for i, idx := range order {
		c.Members[i] = g.IDAt(idx)
	}
	countStructure(g, c, order)
	return c
}

// countStructure fills triangle, triple and edge counts and the intra-cluster edge keys.
//
// Triangles: for every ordered adjacent pair (u,v), |N(u) ∩ N(v)| closes a triangle
// through u and v. Each triangle is seen 6 times (3 vertices × 2 directions).
func countStructure(g *graph.Graph, c *Cluster, order []uint32) {
	var closed uint64
	degreeSum := 0
	var tripleSum float64

	for _, u := range order {
		nu := g.NeighborSet(u)
		deg := int(nu.GetCardinality())
		degreeSum += deg
		tripleSum += float64(deg) * float64(deg-1) / 2

		uid := g.IDAt(u)
		it := nu.Iterator()
		for it.HasNext() {
			v := it.Next()
			closed += nu.AndCardinality(g.NeighborSet(v))
			if vid := g.IDAt(v); uid < vid {
				c.EdgeKeys = append(c.EdgeKeys, graph.Key(uid, vid))
			}
		}
	}

	sort.Strings(c.EdgeKeys)
	c.Triangles = int(closed / 6)
	c.Triples = tripleSum / 3
	c.Edges = degreeSum / 2
}
