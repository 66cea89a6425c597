package graph

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioEdges() []Edge {
	return []Edge{
		{Source: "A", Target: "B", Distance: 0.01},
		{Source: "B", Target: "C", Distance: 0.01},
		{Source: "A", Target: "C", Distance: 0.02},
		{Source: "D", Target: "E", Distance: 0.03},
	}
}

// randomEdges draws up to n*2 edges over n node names.
func randomEdges(r *rand.Rand, n int) []Edge {
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('a'+i%26)) + string(rune('0'+i/26))
	}
	m := r.Intn(n*2 + 1)
	edges := make([]Edge, 0, m)
	for i := 0; i < m; i++ {
		edges = append(edges, Edge{
			Source:   names[r.Intn(n)],
			Target:   names[r.Intn(n)],
			Distance: r.Float64() * 0.05,
		})
	}
	return edges
}

func TestKey(t *testing.T) {
	assert.Equal(t, "A-B", Key("A", "B"))
	assert.Equal(t, "A-B", Key("B", "A"))
	assert.Equal(t, "seq|1-seq|2", Edge{Source: "seq|2", Target: "seq|1"}.Key())

	lo, hi := Canonical("b", "a")
	assert.Equal(t, "a", lo)
	assert.Equal(t, "b", hi)
}

func TestBuild_Scenario(t *testing.T) {
	g := Build(scenarioEdges(), 0.025)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, []string{"A", "B", "C"}, g.Nodes())
	assert.Equal(t, []string{"B", "C"}, g.Neighbors("A"))
	assert.Equal(t, 2, g.Degree("C"))
	assert.False(t, g.HasNode("D"), "D-E at 0.03 is above 0.025")
	assert.True(t, g.HasEdge("C", "A"))

	e, ok := g.Edge("A-C")
	require.True(t, ok)
	assert.Equal(t, 0.02, e.Distance)
}

func TestBuild_StrictThreshold(t *testing.T) {
	g := Build([]Edge{{Source: "A", Target: "B", Distance: 0.02}}, 0.02)
	assert.Equal(t, 0, g.EdgeCount(), "distance equal to threshold must be excluded")

	g = Build(scenarioEdges(), 0.005)
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 0, g.NodeCount())
	assert.Empty(t, g.Adjacency())
}

func TestBuild_SelfLoopsAndDuplicates(t *testing.T) {
	g := Build([]Edge{
		{Source: "A", Target: "A", Distance: 0.001},
		{Source: "A", Target: "B", Distance: 0.01},
		{Source: "B", Target: "A", Distance: 0.002},
		{Source: "C", Target: "B", Distance: math.NaN()},
	}, 0.05)

	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 1, g.Degree("A"), "self-loop must not count towards degree")
	e, _ := g.Edge("A-B")
	assert.Equal(t, 0.01, e.Distance, "first occurrence wins")
	assert.False(t, g.HasNode("C"), "NaN distance is never below a threshold")
}

func TestBuild_AdjacencyIsSymmetric(t *testing.T) {
	g := Build(scenarioEdges(), 1)
	adj := g.Adjacency()
	for u, ns := range adj {
		for v := range ns {
			_, back := adj[v][u]
			assert.True(t, back, "%s->%s has no back-reference", u, v)
		}
	}
	assert.Len(t, g.ActiveEdges(), 4)
}

func TestBuild_IndexAccessors(t *testing.T) {
	g := Build(scenarioEdges(), 1)
	idx, ok := g.IndexOf("D")
	require.True(t, ok)
	assert.Equal(t, "D", g.IDAt(idx))
	assert.Equal(t, 1, g.DegreeAt(idx))
	assert.Equal(t, uint64(5), g.AllNodes().GetCardinality())
	assert.True(t, g.NeighborSet(idx).Contains(uint32(4)))
}

func TestBuild_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("active edges are monotone in the threshold", prop.ForAll(
		func(seed int64, t1, t2 float64) bool {
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			edges := randomEdges(rand.New(rand.NewSource(seed)), 12)
			low, high := Build(edges, t1), Build(edges, t2)
			for _, e := range low.Edges() {
				if !high.HasEdge(e.Source, e.Target) {
					return false
				}
			}
			return low.EdgeCount() <= high.EdgeCount()
		},
		gen.Int64(),
		gen.Float64Range(0, 0.05),
		gen.Float64Range(0, 0.05),
	))

	properties.Property("degree sum is twice the edge count", prop.ForAll(
		func(seed int64, threshold float64) bool {
			g := Build(randomEdges(rand.New(rand.NewSource(seed)), 15), threshold)
			sum := 0
			for _, id := range g.Nodes() {
				sum += g.Degree(id)
			}
			return sum == 2*g.EdgeCount()
		},
		gen.Int64(),
		gen.Float64Range(0, 0.05),
	))

	properties.Property("every active edge is strictly below the threshold", prop.ForAll(
		func(seed int64, threshold float64) bool {
			g := Build(randomEdges(rand.New(rand.NewSource(seed)), 10), threshold)
			for _, e := range g.Edges() {
				if !(e.Distance < threshold) || e.Source == e.Target {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.Float64Range(0, 0.05),
	))

	properties.TestingRun(t)
}

func TestIndividualID(t *testing.T) {
	tests := []struct {
		id, delim, want string
	}{
		{"seq1|P7|2020", "|", "P7"},
		{"seq1|P7", "|", "P7"},
		{"P7", "|", "P7"},
		{"seq1||x", "|", ""},
		{"a:b", ":", "b"},
		{"a|b", "", "a|b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndividualID(tt.id, tt.delim), tt.id)
	}
	assert.Equal(t, "B", NewResolver("|")("A|B"))
}

func TestFieldResolver(t *testing.T) {
	assert.Equal(t, "seq1", FieldResolver("|", 0)("seq1|P7|2020"))
	assert.Equal(t, "2020", FieldResolver("|", 2)("seq1|P7|2020"))
	assert.Equal(t, "seq1|P7", FieldResolver("|", 2)("seq1|P7"))
}
