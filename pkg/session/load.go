package session

import (
	"context"
	"io"
	"time"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/export"
	"github.com/dd0wney/cluso-seqnet/pkg/loader"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
	"github.com/dd0wney/cluso-seqnet/pkg/metrics"
)

// ReadEdges loads an edge list, recording row outcomes and timing. It does not touch
// any session, so it can run while another dataset is being analysed.
func ReadEdges(ctx context.Context, r io.Reader, opts loader.EdgeOptions, reg *metrics.Registry) (*loader.EdgeSet, error) {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	log := logging.OrDefault(opts.Logger)
	timer := logging.StartStage(log, "load_edges", logging.Path(opts.Name))

	set, err := loader.ReadEdges(ctx, r, opts)
	if err != nil {
		reg.RecordStage("load_edges", err, timer.Fail(err))
		return nil, err
	}
	reg.RecordRows("edges", "accepted", set.Report.Accepted)
	reg.RecordRows("edges", "duplicate", set.Report.Duplicates)
	reg.RecordRows("edges", "skipped", set.Report.MissingID)
	reg.RecordRows("edges", "malformed", set.Report.Malformed)
	reg.RecordRows("edges", "above_ceiling", set.Report.AboveCeiling)
	reg.RecordStage("load_edges", nil, timer.Done(logging.Edges(len(set.Edges))))
	return set, nil
}

// ReadAttributes loads an attribute table and applies kind overrides and the zip flag.
func ReadAttributes(r io.Reader, name string, kinds map[string]attributes.Kind, zip string, logger logging.Logger, reg *metrics.Registry) (*attributes.Table, error) {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	timer := logging.StartStage(logging.OrDefault(logger), "load_attributes", logging.Path(name))
	fail := func(err error) (*attributes.Table, error) {
		reg.RecordStage("load_attributes", err, timer.Fail(err))
		return nil, err
	}

	table, err := loader.ReadAttributes(r, name)
	if err != nil {
		return fail(err)
	}
	if err := table.ApplyKinds(kinds); err != nil {
		return fail(err)
	}
	if zip != "" {
		if err := table.Categories.MarkZip(zip); err != nil {
			return fail(err)
		}
	}
	reg.RecordRows("attributes", "accepted", table.Len())
	reg.RecordStage("load_attributes", nil, timer.Done(logging.Int("records", table.Len())))
	return table, nil
}

// ExportEdges writes the active edges of the current result.
func (s *Session) ExportEdges(w io.Writer) error {
	r := s.Result()
	if r == nil {
		return ErrNoData
	}
	return s.timedExport("export_edges", func() error { return export.WriteEdges(w, r.Graph.Edges()) })
}

// ExportClusters writes cluster assignments of the current result, singletons as -1.
func (s *Session) ExportClusters(w io.Writer) error {
	r := s.Result()
	if r == nil {
		return ErrNoData
	}
	return s.timedExport("export_clusters", func() error { return export.WriteClusters(w, r.Clusters) })
}

func (s *Session) timedExport(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.RecordStage(stage, err, time.Since(start))
	if err != nil {
		s.log.Error(stage+" failed", logging.Error(err))
	}
	return err
}
