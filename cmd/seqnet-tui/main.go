package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/config"
	"github.com/dd0wney/cluso-seqnet/pkg/loader"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
	"github.com/dd0wney/cluso-seqnet/pkg/metrics"
	"github.com/dd0wney/cluso-seqnet/pkg/session"
	"github.com/dd0wney/cluso-seqnet/pkg/source"
)

func main() {
	cfgPath := flag.String("config", "", "YAML run configuration")
	edges := flag.String("edges", "", "edge list, local or s3://")
	attrs := flag.String("attributes", "", "attribute table, local or s3://")
	zip := flag.String("zip", "", "zip code category")
	threshold := flag.Float64("threshold", config.DefaultThreshold, "initial distance threshold")
	logFile := flag.String("log", "", "write JSON logs to this file")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "edges":
			cfg.Edges = *edges
		case "attributes":
			cfg.Attributes = *attrs
		case "zip":
			cfg.ZipCategory = *zip
		case "threshold":
			cfg.Threshold = *threshold
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var logger logging.Logger = logging.NewNopLogger()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logger = logging.NewJSONLogger(f, logging.ParseLevel(cfg.LogLevel))
	}
	logging.SetDefaultLogger(logger)

	s, err := load(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}

	p := tea.NewProgram(initialModel(s, cfg.Threshold), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

// load reads the inputs named by cfg into a new session with the configured views.
func load(ctx context.Context, cfg *config.Config, logger logging.Logger) (*session.Session, error) {
	opener := source.New(source.WithS3Options(source.S3Options{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	}))
	reg := metrics.DefaultRegistry()

	var edges *loader.EdgeSet
	err := withInput(ctx, opener, cfg.Edges, func(r io.Reader) error {
		var err error
		edges, err = session.ReadEdges(ctx, r, loader.EdgeOptions{
			Name:         source.Name(cfg.Edges),
			MaxThreshold: cfg.MaxThreshold,
			Strict:       cfg.StrictEdges,
			Logger:       logger,
		}, reg)
		return err
	})
	if err != nil {
		return nil, err
	}

	var table *attributes.Table
	if cfg.Attributes != "" {
		kinds, err := cfg.Kinds()
		if err != nil {
			return nil, err
		}
		err = withInput(ctx, opener, cfg.Attributes, func(r io.Reader) error {
			var err error
			table, err = session.ReadAttributes(r, source.Name(cfg.Attributes), kinds, cfg.ZipCategory, logger, reg)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	s := session.New(session.Options{
		MaxThreshold:    cfg.MaxThreshold,
		Resolver:        cfg.Resolver(),
		MinClusterSize:  cfg.MinClusterSize,
		LargestClusters: cfg.LargestClusters,
		Logger:          logger,
		Metrics:         reg,
	})
	s.Upload(edges, table)
	for _, v := range cfg.Views {
		if _, err := s.AddView(viewRequest(v)); err != nil {
			return nil, fmt.Errorf("view %v: %w", v.Selectors, err)
		}
	}
	return s, nil
}

func withInput(ctx context.Context, opener *source.Opener, location string, fn func(io.Reader) error) error {
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return err
	}
	defer rc.Close()
	return fn(rc)
}
