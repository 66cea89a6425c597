package session

import (
	"fmt"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/stats"
)

// NodeInfo describes one node of the current result.
type NodeInfo struct {
	ID           string
	IndividualID string
	// Record is nil when the individual has no attribute row.
	Record    *attributes.Record
	Degree    int
	Neighbors []string
	Views     []string
	Color     string
	// Cluster is cluster.SingletonID for nodes with no active edge.
	Cluster int
}

// Singleton reports whether the node has no active edge.
func (n NodeInfo) Singleton() bool { return n.Cluster == cluster.SingletonID }

// InspectNode reports everything known about a node at the current threshold.
func (s *Session) InspectNode(id string) (NodeInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return NodeInfo{}, ErrNoData
	}
	r := s.current

	c, ok := r.Clusters.Lookup(id)
	if !ok {
		return NodeInfo{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	info := NodeInfo{
		ID:           id,
		IndividualID: s.opts.Resolver(id),
		Degree:       r.Graph.Degree(id),
		Neighbors:    r.Graph.Neighbors(id),
		Color:        r.Color(id),
		Cluster:      c.ID,
	}
	if s.table != nil {
		info.Record, _ = s.table.Lookup(info.IndividualID)
	}
	if r.Classification != nil {
		info.Views = r.Classification.Views(id)
	}
	return info, nil
}

// ClusterStats summarises one cluster of the current result.
func (s *Session) ClusterStats(id int) (stats.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return stats.Stats{}, ErrNoData
	}
	c, ok := s.current.Clusters.Get(id)
	if !ok {
		return stats.Stats{}, fmt.Errorf("%w: %d", ErrClusterNotFound, id)
	}
	return stats.ForCluster(c, s.current.Graph), nil
}
