package cluster

// Len returns the number of clusters.
func (s *Set) Len() int { return len(s.Clusters) }

// Lookup returns the cluster containing node id. Singletons resolve to a size-1
// cluster with ID SingletonID.
func (s *Set) Lookup(id string) (*Cluster, bool) {
	if i, ok := s.byNode[id]; ok {
		return s.Clusters[i], true
	}
	if s.IsSingleton(id) {
		return singleton(id), true
	}
	return nil, false
}

// Get returns the cluster with the given ID.
func (s *Set) Get(id int) (*Cluster, bool) {
	if id < 0 || id >= len(s.Clusters) {
		return nil, false
	}
	return s.Clusters[id], true
}

// MaxSize returns the size of the largest cluster, or 0 for an empty set.
func (s *Set) MaxSize() int {
	if len(s.Sizes) == 0 {
		return 0
	}
	return s.Sizes[len(s.Sizes)-1]
}

// NodeCount returns the number of partitioned nodes.
func (s *Set) NodeCount() int { return len(s.byNode) }

// MinSize returns clusters with at least n members, in ascending order.
func (s *Set) MinSize(n int) []*Cluster {
	for i, c := range s.Clusters {
		if c.Size >= n {
			return s.Clusters[i:]
		}
	}
	return nil
}

// Largest returns the n largest clusters, largest first. Ties keep the set's order
// reversed, so the result is deterministic.
func (s *Set) Largest(n int) []*Cluster {
	if n <= 0 {
		return nil
	}
	if n > len(s.Clusters) {
		n = len(s.Clusters)
	}
	out := make([]*Cluster, 0, n)
	for i := len(s.Clusters) - 1; i >= len(s.Clusters)-n; i-- {
		out = append(out, s.Clusters[i])
	}
	return out
}

// Nodes returns the member ids of the given clusters, in cluster then discovery order.
func Nodes(clusters []*Cluster) []string {
	total := 0
	for _, c := range clusters {
		total += c.Size
	}
	out := make([]string, 0, total)
	for _, c := range clusters {
		out = append(out, c.Members...)
	}
	return out
}

// WithUniverse records every id of universe that is not in the active graph as a
// singleton. Universe order is preserved.
func (s *Set) WithUniverse(universe []string) *Set {
	s.Singletons = s.Singletons[:0]
	s.singletonOf = make(map[string]struct{})
	for _, id := range universe {
		if _, active := s.byNode[id]; active {
			continue
		}
		if _, seen := s.singletonOf[id]; seen {
			continue
		}
		s.singletonOf[id] = struct{}{}
		s.Singletons = append(s.Singletons, id)
	}
	return s
}

// IsSingleton reports whether id was recorded as a singleton.
func (s *Set) IsSingleton(id string) bool {
	_, ok := s.singletonOf[id]
	return ok
}

// SingletonClusters returns each singleton as a size-1 cluster with SingletonID.
func (s *Set) SingletonClusters() []*Cluster {
	out := make([]*Cluster, len(s.Singletons))
	for i, id := range s.Singletons {
		out[i] = singleton(id)
	}
	return out
}

func singleton(id string) *Cluster {
	return &Cluster{ID: SingletonID, Seed: id, Members: []string{id}, Size: 1}
}
