package cluster

import "github.com/RoaringBitmap/roaring/v2"

// Cluster is a maximal connected subgraph of the active graph.
type Cluster struct {
	// ID is the cluster's position in the ascending size ordering.
	ID int
	// Seed is the node the traversal started from.
	Seed string
	// Members lists node ids in discovery order.
	Members []string
	// EdgeKeys lists canonical keys of intra-cluster edges, sorted.
	EdgeKeys []string

	Size      int
	Triangles int
	// Triples is Σ deg·(deg-1)/2 over members, divided by 3.
	Triples float64
	Edges   int

	members *roaring.Bitmap
}

// Contains reports whether the node at graph index idx belongs to the cluster.
func (c *Cluster) Contains(idx uint32) bool {
	return c.members != nil && c.members.Contains(idx)
}

// Set is the full partition of one graph.
type Set struct {
	// Clusters sorted ascending by size, ties broken by seed id.
	Clusters []*Cluster
	// Sizes ascending.
	Sizes []int
	// Distribution maps a cluster size to the number of clusters of that size.
	Distribution map[int]int
	// Singletons are uploaded nodes with no active edge, in upload order. Each is a
	// trivial cluster of size 1 and is kept out of Clusters, Sizes and Distribution.
	Singletons []string

	byNode      map[string]int
	singletonOf map[string]struct{}
}

// SingletonID is the cluster number reported for nodes outside the active graph.
const SingletonID = -1
