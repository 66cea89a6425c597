// Package session owns every piece of mutable analysis state for one dataset and routes
// all changes through the graph, cluster, stats, views and geo stages.
package session

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
	"github.com/dd0wney/cluso-seqnet/pkg/loader"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
	"github.com/dd0wney/cluso-seqnet/pkg/metrics"
	"github.com/dd0wney/cluso-seqnet/pkg/views"
)

var (
	// ErrInvalidThreshold is returned for a threshold outside [0, max threshold].
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrNoData is returned when an operation needs an edge list and none is loaded.
	ErrNoData = errors.New("no edge data loaded")
	// ErrNodeNotFound is returned when inspecting an id outside the uploaded universe.
	ErrNodeNotFound = errors.New("node not found")
	// ErrClusterNotFound is returned for an unknown cluster ID.
	ErrClusterNotFound = errors.New("cluster not found")
)

// Options configure a Session.
type Options struct {
	// MaxThreshold bounds SetThreshold; zero means loader.DefaultMaxThreshold.
	MaxThreshold float64
	// Resolver maps node ids to individual ids; nil splits on "|" and takes field 1.
	Resolver graph.Resolver
	// MinClusterSize and LargestClusters narrow Result.Visible. Zero disables each.
	MinClusterSize  int
	LargestClusters int

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Session is the single owner of the edge list, attribute table, views and the
// structures derived from them. Its methods are safe to call from multiple goroutines
// but are serialised.
type Session struct {
	mu sync.Mutex

	opts    Options
	log     logging.Logger
	metrics *metrics.Registry

	generation string
	edges      *loader.EdgeSet
	table      *attributes.Table
	views      *views.Registry
	current    *Result
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.MaxThreshold <= 0 {
		opts.MaxThreshold = loader.DefaultMaxThreshold
	}
	if opts.Resolver == nil {
		opts.Resolver = graph.NewResolver(graph.DefaultDelimiter)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	s := &Session{
		opts:    opts,
		log:     logging.OrDefault(opts.Logger).With(logging.Component("session")),
		metrics: opts.Metrics,
	}
	s.reset()
	return s
}

// Reset discards every dataset structure and starts a new generation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.generation = uuid.NewString()
	s.edges = nil
	s.table = nil
	s.views = views.NewRegistry(nil)
	s.current = nil
	s.log.Debug("session reset", logging.Generation(s.generation))
}

// Generation identifies the current dataset. It changes on every Reset and Upload.
func (s *Session) Generation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Upload resets the session and installs a new dataset. table may be nil when no
// attribute file was supplied.
func (s *Session) Upload(edges *loader.EdgeSet, table *attributes.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.edges = edges
	s.table = table
	if table != nil {
		s.views = views.NewRegistry(table.Categories)
	}

	fields := []logging.Field{logging.Generation(s.generation)}
	if edges != nil {
		fields = append(fields, logging.Edges(len(edges.Edges)), logging.Nodes(len(edges.Universe)))
	}
	if table != nil {
		fields = append(fields, logging.Int("records", table.Len()), logging.Int("categories", table.Categories.Len()))
	}
	s.log.Info("dataset uploaded", fields...)
}

// MaxThreshold returns the upper bound accepted by SetThreshold.
func (s *Session) MaxThreshold() float64 { return s.opts.MaxThreshold }

// ValidateThreshold checks t against [0, max threshold].
func (s *Session) ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > s.opts.MaxThreshold {
		return fmt.Errorf("%w: %g is outside [0, %g]", ErrInvalidThreshold, t, s.opts.MaxThreshold)
	}
	return nil
}

// SetThreshold rebuilds the graph and everything derived from it. On error the
// previous result is kept.
func (s *Session) SetThreshold(t float64) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ValidateThreshold(t); err != nil {
		s.log.Warn("threshold rejected", logging.Threshold(t), logging.Error(err))
		return nil, err
	}
	if s.edges == nil {
		return nil, ErrNoData
	}
	s.current = s.build(t)
	return s.current, nil
}

// Result returns the last computed result, or nil.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Current reports whether r belongs to the current generation and threshold, so
// callers can drop results that were superseded while they were in flight.
func (s *Session) Current(r *Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r != nil && s.current == r && r.Generation == s.generation
}

// Categories returns the attribute categories, or nil without an attribute table.
func (s *Session) Categories() *attributes.Categories {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table == nil {
		return nil
	}
	return s.table.Categories
}

// Table returns the attribute table, or nil.
func (s *Session) Table() *attributes.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// Edges returns the loaded edge set, or nil.
func (s *Session) Edges() *loader.EdgeSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edges
}

// Views returns the view definitions in definition order.
func (s *Session) Views() []*views.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views.List()
}

func (s *Session) visible(set *cluster.Set) []*cluster.Cluster {
	out := set.Clusters
	if s.opts.MinClusterSize > 0 {
		out = set.MinSize(s.opts.MinClusterSize)
	}
	if n := s.opts.LargestClusters; n > 0 && n < len(out) {
		out = out[len(out)-n:]
	}
	return out
}
