package cluster

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

// ErrPartitionMismatch is returned by Verify when a Set disagrees with the union-find
// partition of the same graph.
var ErrPartitionMismatch = errors.New("cluster sizes disagree with union-find partition")

// UnionFind is a disjoint-set structure over dense node indices that merges the
// smaller member list into the larger, so every element is relabelled O(log n) times.
// It shares no code with Compute and serves as an independent cross-check of it.
type UnionFind struct {
	root    []uint32
	members [][]uint32
	sets    int
}

// NewUnionFind creates n singleton sets.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{
		root:    make([]uint32, n),
		members: make([][]uint32, n),
		sets:    n,
	}
	for i := range uf.root {
		uf.root[i] = uint32(i)
		uf.members[i] = []uint32{uint32(i)}
	}
	return uf
}

// Find returns the representative of x. It is O(1): roots are rewritten on merge.
func (uf *UnionFind) Find(x uint32) uint32 { return uf.root[x] }

// Union merges the sets of a and b and reports whether they were distinct.
func (uf *UnionFind) Union(a, b uint32) bool {
	ra, rb := uf.root[a], uf.root[b]
	if ra == rb {
		return false
	}
	if len(uf.members[ra]) < len(uf.members[rb]) {
		ra, rb = rb, ra
	}
	for _, m := range uf.members[rb] {
		uf.root[m] = ra
	}
	uf.members[ra] = append(uf.members[ra], uf.members[rb]...)
	uf.members[rb] = nil
	uf.sets--
	return true
}

// Sets returns the number of disjoint sets.
func (uf *UnionFind) Sets() int { return uf.sets }

// Components returns each set's members sorted ascending, ordered by smallest member.
func (uf *UnionFind) Components() [][]uint32 {
	out := make([][]uint32, 0, uf.sets)
	for i, m := range uf.members {
		if len(m) == 0 || uf.root[i] != uint32(i) {
			continue
		}
		c := append([]uint32(nil), m...)
		sort.Slice(c, func(a, b int) bool { return c[a] < c[b] })
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

// Partition computes the component sizes of g with a union-find pass over its edges.
// Sizes are ascending, matching Set.Sizes.
func Partition(g *graph.Graph) []int {
	uf := NewUnionFind(g.NodeCount())
	for _, e := range g.Edges() {
		u, _ := g.IndexOf(e.Source)
		v, _ := g.IndexOf(e.Target)
		uf.Union(u, v)
	}
	comps := uf.Components()
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	sort.Ints(sizes)
	return sizes
}

// Verify recomputes the partition of g by union-find and compares its sizes with s.
func Verify(g *graph.Graph, s *Set) error {
	got := Partition(g)
	want := append([]int(nil), s.Sizes...)
	sort.Ints(want)
	if !slices.Equal(got, want) {
		return fmt.Errorf("%w: %d components by union-find, %d in set", ErrPartitionMismatch, len(got), len(want))
	}
	return nil
}
