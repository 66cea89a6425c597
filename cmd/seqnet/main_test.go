package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-seqnet/pkg/config"
	"github.com/dd0wney/cluso-seqnet/pkg/export"
)

func writeInputs(t *testing.T) (edges, attrs string) {
	t.Helper()
	dir := t.TempDir()
	edges = filepath.Join(dir, "pairs.tsv")
	attrs = filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(edges, []byte("SOURCE\tTARGET\tDISTANCE\n"+
		"A|P1\tB|P2\t0.01\n"+
		"B|P2\tC|P3\t0.01\n"+
		"A|P1\tC|P3\t0.02\n"+
		"D|P4\tE|P5\t0.03\n"), 0o644))
	require.NoError(t, os.WriteFile(attrs, []byte("ID,Sex,Zip\nP1,F,02139\nP2,M,02139\nP3,F,10001\nP4,M,10001\nP5,F,10001\n"), 0o644))
	return edges, attrs
}

func TestParseFlags_OverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("edges: from-file.tsv\nthreshold: 0.02\nmin_cluster_size: 3\n"), 0o644))

	cfg, err := parseFlags("analyze", []string{"--config", path, "--threshold", "0.01"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "from-file.tsv", cfg.Edges)
	assert.Equal(t, 0.01, cfg.Threshold)
	assert.Equal(t, 3, cfg.MinClusterSize)
	assert.Equal(t, config.DefaultMaxThreshold, cfg.MaxThreshold)
}

func TestParseFlags_Validates(t *testing.T) {
	_, err := parseFlags("analyze", nil, io.Discard)
	assert.Error(t, err, "edges is required")

	_, err = parseFlags("analyze", []string{"--edges", "x.tsv", "--threshold", "0.2"}, io.Discard)
	assert.Error(t, err, "threshold above the ceiling")

	_, err = parseFlags("analyze", []string{"--edges", "x.tsv", "extra"}, io.Discard)
	assert.Error(t, err)
}

func TestAnalyze_PrintsReport(t *testing.T) {
	edges, attrs := writeInputs(t)
	var out bytes.Buffer
	err := handleAnalyze(context.Background(), []string{
		"--edges", edges, "--attributes", attrs, "--zip", "Zip",
		"--threshold", "0.025", "--log-level", "error",
	}, &out)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "threshold 0.025")
	assert.Contains(t, report, "Transitivity")
	assert.Contains(t, report, "Zip codes (2)")
	assert.Contains(t, report, "accepted 4")
}

func TestExport_WritesCompressedFiles(t *testing.T) {
	edges, _ := writeInputs(t)
	dir := t.TempDir()
	outEdges := filepath.Join(dir, "edges.tsv.zst")
	outClusters := filepath.Join(dir, "clusters.tsv")

	var out bytes.Buffer
	err := handleExport(context.Background(), []string{
		"--edges", edges, "--threshold", "0.025", "--log-level", "error",
		"--out-edges", outEdges, "--out-clusters", outClusters,
	}, &out)
	require.NoError(t, err)

	f, err := os.Open(outEdges)
	require.NoError(t, err)
	defer f.Close()
	r, err := export.NewReader(f, export.Zstd)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, export.EdgesHeader, lines[0])
	assert.Len(t, lines, 4)

	clusters, err := os.ReadFile(outClusters)
	require.NoError(t, err)
	assert.Contains(t, string(clusters), "D|P4\t-1")
	assert.Contains(t, string(clusters), "E|P5\t-1")
}

func TestExport_RequiresOutput(t *testing.T) {
	edges, _ := writeInputs(t)
	err := handleExport(context.Background(), []string{"--edges", edges}, io.Discard)
	assert.Error(t, err)
}
