package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/config"
	"github.com/dd0wney/cluso-seqnet/pkg/export"
	"github.com/dd0wney/cluso-seqnet/pkg/loader"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
	"github.com/dd0wney/cluso-seqnet/pkg/metrics"
	"github.com/dd0wney/cluso-seqnet/pkg/session"
	"github.com/dd0wney/cluso-seqnet/pkg/source"
	"github.com/dd0wney/cluso-seqnet/pkg/views"
	"github.com/dd0wney/cluso-seqnet/pkg/watch"
)

// runner carries everything one invocation needs.
type runner struct {
	cfg     *config.Config
	log     logging.Logger
	metrics *metrics.Registry
	opener  *source.Opener
	out     io.Writer
}

func newRunner(cfg *config.Config, out io.Writer) *runner {
	log := logging.NewStderrLogger(logging.ParseLevel(cfg.LogLevel))
	logging.SetDefaultLogger(log)
	return &runner{
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewRegistry(),
		opener: source.New(source.WithS3Options(source.S3Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})),
		out: out,
	}
}

func handleAnalyze(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := parseFlags("analyze", args, os.Stderr)
	if err != nil {
		return err
	}
	r := newRunner(cfg, out)
	_, err = r.analyze(ctx)
	return err
}

func handleExport(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := parseFlags("export", args, os.Stderr)
	if err != nil {
		return err
	}
	if cfg.Export.Edges == "" && cfg.Export.Clusters == "" {
		return fmt.Errorf("export: set --out-edges and/or --out-clusters")
	}
	r := newRunner(cfg, out)
	s, err := r.analyze(ctx)
	if err != nil {
		return err
	}
	return r.export(s)
}

func handleWatch(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := parseFlags("watch", args, os.Stderr)
	if err != nil {
		return err
	}
	r := newRunner(cfg, out)

	var paths []string
	for _, p := range []string{cfg.Edges, cfg.Attributes} {
		if _, _, remote := source.ParseS3(p); p != "" && !remote {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("watch: no local input files to watch")
	}

	w, err := watch.New(paths, watch.WithLogger(r.log))
	if err != nil {
		return err
	}
	defer w.Close()

	rerun := func(ctx context.Context) error {
		s, err := r.analyze(ctx)
		if err != nil {
			return err
		}
		if cfg.Export.Edges != "" || cfg.Export.Clusters != "" {
			return r.export(s)
		}
		return nil
	}
	if err := rerun(ctx); err != nil {
		r.log.Error("initial analysis failed", logging.Error(err))
	}
	fmt.Fprintf(out, "👀 Watching %d file(s), Ctrl-C to stop\n", len(paths))
	return w.Run(ctx, rerun)
}

// load reads the edge list and the attribute table concurrently.
func (r *runner) load(ctx context.Context) (*loader.EdgeSet, *attributes.Table, error) {
	kinds, err := r.cfg.Kinds()
	if err != nil {
		return nil, nil, err
	}

	var (
		edges *loader.EdgeSet
		table *attributes.Table
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc, err := r.opener.Open(gctx, r.cfg.Edges)
		if err != nil {
			return err
		}
		defer rc.Close()
		edges, err = session.ReadEdges(gctx, rc, loader.EdgeOptions{
			Name:         source.Name(r.cfg.Edges),
			MaxThreshold: r.cfg.MaxThreshold,
			Strict:       r.cfg.StrictEdges,
			Logger:       r.log,
		}, r.metrics)
		return err
	})
	if r.cfg.Attributes != "" {
		g.Go(func() error {
			rc, err := r.opener.Open(gctx, r.cfg.Attributes)
			if err != nil {
				return err
			}
			defer rc.Close()
			table, err = session.ReadAttributes(rc, source.Name(r.cfg.Attributes), kinds, r.cfg.ZipCategory, r.log, r.metrics)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return edges, table, nil
}

// analyze runs one full pass and prints the report.
func (r *runner) analyze(ctx context.Context) (*session.Session, error) {
	edges, table, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	s := session.New(session.Options{
		MaxThreshold:    r.cfg.MaxThreshold,
		Resolver:        r.cfg.Resolver(),
		MinClusterSize:  r.cfg.MinClusterSize,
		LargestClusters: r.cfg.LargestClusters,
		Logger:          r.log,
		Metrics:         r.metrics,
	})
	s.Upload(edges, table)

	if len(r.cfg.Views) > 0 {
		reqs := make([]views.Request, len(r.cfg.Views))
		for i, v := range r.cfg.Views {
			reqs[i] = views.Request{Color: v.Color, Selectors: v.Selectors}
		}
		if _, err := s.AddViews(reqs); err != nil {
			return nil, fmt.Errorf("views: %w", err)
		}
	}

	res, err := s.SetThreshold(r.cfg.Threshold)
	if err != nil {
		return nil, err
	}
	printReport(r.out, s, res, edges.Report)

	if r.cfg.MetricsFile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.MetricsFile); err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
	}
	return s, nil
}

func (r *runner) export(s *session.Session) error {
	if p := r.cfg.Export.Edges; p != "" {
		if err := export.WriteFile(p, s.ExportEdges); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "✅ Edges written to %s\n", p)
	}
	if p := r.cfg.Export.Clusters; p != "" {
		if err := export.WriteFile(p, s.ExportClusters); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "✅ Clusters written to %s\n", p)
	}
	return nil
}
