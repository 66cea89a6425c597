package cluster

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

func scenarioEdges() []graph.Edge {
	return []graph.Edge{
		{Source: "A", Target: "B", Distance: 0.01},
		{Source: "B", Target: "C", Distance: 0.01},
		{Source: "A", Target: "C", Distance: 0.02},
		{Source: "D", Target: "E", Distance: 0.03},
	}
}

func completeGraph(n int) []graph.Edge {
	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, graph.Edge{Source: fmt.Sprintf("n%02d", i), Target: fmt.Sprintf("n%02d", j), Distance: 0.001})
		}
	}
	return edges
}

func randomGraph(seed int64, n int) *graph.Graph {
	r := rand.New(rand.NewSource(seed))
	var edges []graph.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if r.Float64() < 0.3 {
				edges = append(edges, graph.Edge{Source: fmt.Sprintf("v%d", i), Target: fmt.Sprintf("v%d", j), Distance: r.Float64() * 0.05})
			}
		}
	}
	return graph.Build(edges, 0.03)
}

// bruteForceTriangles enumerates every node triple.
func bruteForceTriangles(g *graph.Graph) int {
	nodes := g.Nodes()
	count := 0
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if !g.HasEdge(nodes[i], nodes[j]) {
				continue
			}
			for k := j + 1; k < len(nodes); k++ {
				if g.HasEdge(nodes[i], nodes[k]) && g.HasEdge(nodes[j], nodes[k]) {
					count++
				}
			}
		}
	}
	return count
}

func TestCompute_Scenario(t *testing.T) {
	set := Compute(graph.Build(scenarioEdges(), 0.025))
	require.Equal(t, 1, set.Len())

	abc := set.Clusters[0]
	assert.ElementsMatch(t, []string{"A", "B", "C"}, abc.Members)
	assert.Equal(t, 1, abc.Triangles)
	assert.Equal(t, 3, abc.Edges)
	assert.Equal(t, 1.0, abc.Triples)
	assert.Equal(t, []string{"A-B", "A-C", "B-C"}, abc.EdgeKeys)

	set = Compute(graph.Build(scenarioEdges(), 0.035))
	require.Equal(t, 2, set.Len())
	de := set.Clusters[0]
	assert.ElementsMatch(t, []string{"D", "E"}, de.Members)
	assert.Equal(t, 0, de.Triangles)
	assert.Equal(t, 1, de.Edges)
	assert.Equal(t, []int{2, 3}, set.Sizes)
	assert.Equal(t, map[int]int{2: 1, 3: 1}, set.Distribution)
}

func TestCompute_AllSingletonsBelowSmallestDistance(t *testing.T) {
	set := Compute(graph.Build(scenarioEdges(), 0.005)).
		WithUniverse([]string{"A", "B", "C", "D", "E"})

	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Sizes)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, set.Singletons)
	for _, c := range set.SingletonClusters() {
		assert.Equal(t, SingletonID, c.ID)
		assert.Equal(t, 1, c.Size)
		assert.Zero(t, c.Edges)
		assert.Zero(t, c.Triangles)
	}

	c, ok := set.Lookup("D")
	require.True(t, ok)
	assert.Equal(t, SingletonID, c.ID)
}

func TestCompute_EmptyGraph(t *testing.T) {
	set := Compute(graph.Build(nil, 0.05))
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, 0, set.MaxSize())
	assert.Empty(t, set.Distribution)
	assert.Empty(t, set.Largest(3))
}

func TestCompute_TraversalIsLIFO(t *testing.T) {
	// S is seeded first; its neighbours A then B are stacked, so B is popped before A.
	g := graph.Build([]graph.Edge{
		{Source: "S", Target: "A", Distance: 0.01},
		{Source: "S", Target: "B", Distance: 0.01},
		{Source: "A", Target: "C", Distance: 0.01},
	}, 0.05)

	set := Compute(g)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "S", set.Clusters[0].Seed)
	assert.Equal(t, []string{"S", "B", "A", "C"}, set.Clusters[0].Members)
}

func TestCompute_OrderingAndFilters(t *testing.T) {
	g := graph.Build([]graph.Edge{
		{Source: "x1", Target: "x2", Distance: 0.01},
		{Source: "b1", Target: "b2", Distance: 0.01},
		{Source: "t1", Target: "t2", Distance: 0.01},
		{Source: "t2", Target: "t3", Distance: 0.01},
		{Source: "t3", Target: "t4", Distance: 0.01},
	}, 0.05)
	set := Compute(g)

	require.Equal(t, 3, set.Len())
	// equal sizes break ties by seed id
	assert.Equal(t, "b1", set.Clusters[0].Seed)
	assert.Equal(t, "x1", set.Clusters[1].Seed)
	assert.Equal(t, "t1", set.Clusters[2].Seed)
	for i, c := range set.Clusters {
		assert.Equal(t, i, c.ID)
	}

	assert.Equal(t, 4, set.MaxSize())
	assert.Len(t, set.MinSize(3), 1)
	assert.Len(t, set.MinSize(2), 3)
	assert.Empty(t, set.MinSize(5))

	largest := set.Largest(2)
	require.Len(t, largest, 2)
	assert.Equal(t, "t1", largest[0].Seed)
	assert.Equal(t, "x1", largest[1].Seed)
	assert.Len(t, set.Largest(10), 3)

	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, Nodes(set.Largest(1)))

	c, ok := set.Lookup("t3")
	require.True(t, ok)
	assert.Equal(t, 2, c.ID)
	idx, _ := g.IndexOf("t3")
	assert.True(t, c.Contains(idx))
	_, ok = set.Lookup("missing")
	assert.False(t, ok)
	_, ok = set.Get(7)
	assert.False(t, ok)
}

func TestCompute_CompleteGraph(t *testing.T) {
	for n := 3; n <= 7; n++ {
		set := Compute(graph.Build(completeGraph(n), 0.05))
		require.Equal(t, 1, set.Len())
		c := set.Clusters[0]
		assert.Equal(t, n*(n-1)*(n-2)/6, c.Triangles, "K%d triangles", n)
		assert.Equal(t, n*(n-1)/2, c.Edges, "K%d edges", n)
		assert.Equal(t, float64(c.Triangles), c.Triples, "every triple of K%d is closed", n)
	}
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	assert.True(t, uf.Union(0, 1))
	assert.True(t, uf.Union(3, 4))
	assert.False(t, uf.Union(1, 0))
	assert.True(t, uf.Union(4, 1))

	assert.Equal(t, 2, uf.Sets())
	assert.Equal(t, uf.Find(0), uf.Find(3))
	assert.Equal(t, [][]uint32{{0, 1, 3, 4}, {2}}, uf.Components())
}

func TestCompute_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 60
	properties := gopter.NewProperties(parameters)

	properties.Property("clusters partition the active node set", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomGraph(seed, n)
			set := Compute(g)
			seen := make(map[string]int)
			for _, c := range set.Clusters {
				if c.Size != len(c.Members) {
					return false
				}
				for _, id := range c.Members {
					seen[id]++
				}
			}
			if len(seen) != g.NodeCount() {
				return false
			}
			for _, id := range g.Nodes() {
				if seen[id] != 1 {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 20),
	))

	properties.Property("no edge crosses two clusters", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomGraph(seed, n)
			set := Compute(g)
			for _, e := range g.Edges() {
				a, _ := set.Lookup(e.Source)
				b, _ := set.Lookup(e.Target)
				if a.ID != b.ID {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 20),
	))

	properties.Property("summed triangles match brute-force enumeration", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomGraph(seed, n)
			total := 0
			for _, c := range Compute(g).Clusters {
				total += c.Triangles
			}
			return total == bruteForceTriangles(g)
		},
		gen.Int64(),
		gen.IntRange(0, 20),
	))

	properties.Property("union-find agrees with traversal sizes", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomGraph(seed, n)
			sizes := Partition(g)
			want := append([]int(nil), Compute(g).Sizes...)
			sort.Ints(want)
			if len(sizes) != len(want) {
				return false
			}
			for i := range sizes {
				if sizes[i] != want[i] {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 20),
	))

	properties.Property("edge keys cover exactly the active edges", prop.ForAll(
		func(seed int64, n int) bool {
			g := randomGraph(seed, n)
			keys := 0
			for _, c := range Compute(g).Clusters {
				keys += len(c.EdgeKeys)
				if len(c.EdgeKeys) != c.Edges {
					return false
				}
			}
			return keys == g.EdgeCount()
		},
		gen.Int64(),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestVerify(t *testing.T) {
	g := randomGraph(7, 12)
	set := Compute(g)
	require.NoError(t, Verify(g, set))

	set.Sizes = append(set.Sizes, 1)
	assert.ErrorIs(t, Verify(g, set), ErrPartitionMismatch)

	empty := graph.Build(nil, 0.03)
	assert.NoError(t, Verify(empty, Compute(empty)))
}
