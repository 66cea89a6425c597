// Package export writes the active edge list and cluster assignments as tab-separated
// text.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/dd0wney/cluso-seqnet/pkg/cluster"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
)

const (
	EdgesHeader    = "SOURCE\tTARGET\tDISTANCE"
	ClustersHeader = "SequenceName\tClusterNumber"
)

// WriteEdges writes one row per edge in the given order.
func WriteEdges(w io.Writer, edges []graph.Edge) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, EdgesHeader); err != nil {
		return err
	}
	for _, e := range edges {
		bw.WriteString(e.Source)
		bw.WriteByte('\t')
		bw.WriteString(e.Target)
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatFloat(e.Distance, 'g', -1, 64))
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteClusters writes every clustered node with its cluster ID, then every singleton
// with cluster.SingletonID.
func WriteClusters(w io.Writer, set *cluster.Set) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ClustersHeader); err != nil {
		return err
	}
	row := func(id string, n int) error {
		bw.WriteString(id)
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(n))
		return bw.WriteByte('\n')
	}
	for _, c := range set.Clusters {
		for _, id := range c.Members {
			if err := row(id, c.ID); err != nil {
				return err
			}
		}
	}
	for _, id := range set.Singletons {
		if err := row(id, cluster.SingletonID); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile creates path (compressed by suffix) and fills it with write.
func WriteFile(path string, write func(io.Writer) error) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
