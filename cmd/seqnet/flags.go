package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/dd0wney/cluso-seqnet/pkg/config"
)

// parseFlags builds the run configuration: the --config file (or defaults), then any
// flag given explicitly on the command line.
func parseFlags(name string, args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	path := fs.String("config", "", "YAML run configuration")
	edges := fs.String("edges", "", "edge list")
	attrs := fs.String("attributes", "", "attribute table")
	threshold := fs.Float64("threshold", config.DefaultThreshold, "distance threshold")
	maxThreshold := fs.Float64("max-threshold", config.DefaultMaxThreshold, "ingestion ceiling")
	zip := fs.String("zip", "", "zip code category")
	minSize := fs.Int("min-cluster-size", 0, "hide clusters smaller than this")
	largest := fs.Int("largest", 0, "show only the largest N clusters")
	strict := fs.Bool("strict", false, "reject edge files with unreadable distances")
	level := fs.String("log-level", "info", "log level")
	metricsFile := fs.String("metrics-file", "", "Prometheus textfile output")
	outEdges := fs.String("out-edges", "", "active edge output")
	outClusters := fs.String("out-clusters", "", "cluster assignment output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg := config.Default()
	if *path != "" {
		loaded, err := config.Load(*path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "edges":
			cfg.Edges = *edges
		case "attributes":
			cfg.Attributes = *attrs
		case "threshold":
			cfg.Threshold = *threshold
		case "max-threshold":
			cfg.MaxThreshold = *maxThreshold
		case "zip":
			cfg.ZipCategory = *zip
		case "min-cluster-size":
			cfg.MinClusterSize = *minSize
		case "largest":
			cfg.LargestClusters = *largest
		case "strict":
			cfg.StrictEdges = *strict
		case "log-level":
			cfg.LogLevel = *level
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		case "out-edges":
			cfg.Export.Edges = *outEdges
		case "out-clusters":
			cfg.Export.Clusters = *outClusters
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
