package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]
	var err error
	switch command {
	case "analyze":
		err = handleAnalyze(ctx, os.Args[2:], os.Stdout)
	case "export":
		err = handleExport(ctx, os.Args[2:], os.Stdout)
	case "watch":
		err = handleWatch(ctx, os.Args[2:], os.Stdout)
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("seqnet v%s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	usage := `seqnet - genetic-distance transmission network analysis

Usage:
  seqnet <command> [options]

Available Commands:
  analyze     Build the network at a threshold and print summary statistics
  export      Write active edges and cluster assignments
  watch       Re-run analyze whenever the input files change
  help        Show this help message
  version     Show version information

Common Flags:
  --config PATH          YAML run configuration
  --edges PATH           Edge list (SOURCE<TAB>TARGET<TAB>DISTANCE), local or s3://
  --attributes PATH      Attribute table (.csv, .tsv or .txt), local or s3://
  --threshold T          Distance threshold (default 0.015)
  --max-threshold T      Ingestion ceiling (default 0.05)
  --zip NAME             Attribute category holding zip codes
  --min-cluster-size N   Hide clusters smaller than N
  --largest N            Show only the N largest clusters
  --strict               Reject edge files with unreadable distances
  --log-level LEVEL      debug, info, warn or error (default info)
  --metrics-file PATH    Write Prometheus metrics in textfile format

Export Flags:
  --out-edges PATH       Active edges (.sz and .zst are compressed)
  --out-clusters PATH    Cluster assignments, singletons as -1

Examples:
  seqnet analyze --edges pairs.tsv --attributes people.csv --threshold 0.01
  seqnet export --config run.yaml --out-clusters clusters.tsv.zst
  seqnet watch --edges pairs.tsv --attributes people.csv
`
	fmt.Print(usage)
}
