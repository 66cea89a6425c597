package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dd0wney/cluso-seqnet/pkg/geo"
	"github.com/dd0wney/cluso-seqnet/pkg/loader"
	"github.com/dd0wney/cluso-seqnet/pkg/session"
)

const maxListed = 10

func printReport(w io.Writer, s *session.Session, res *session.Result, rep loader.EdgeReport) {
	rule := strings.Repeat("━", 40)

	fmt.Fprintf(w, "📊 Network at threshold %g\n", res.Threshold)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Rows read: %d (accepted %d, duplicates %d, missing id %d, malformed %d, above ceiling %d)\n\n",
		rep.Rows, rep.Accepted, rep.Duplicates, rep.MissingID, rep.Malformed, rep.AboveCeiling)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range res.Stats.Rows() {
		fmt.Fprintf(tw, "  %s\t%s\n", row.Label, row.Value)
	}
	tw.Flush()

	if n := len(res.Visible); n > 0 {
		fmt.Fprintf(w, "\n🔗 Clusters (%d shown, largest first)\n", n)
		fmt.Fprintln(w, rule)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  ID\tSize\tEdges\tTriangles\tSeed")
		for i := n - 1; i >= 0 && i >= n-maxListed; i-- {
			c := res.Visible[i]
			fmt.Fprintf(tw, "  %d\t%d\t%d\t%d\t%s\n", c.ID, c.Size, c.Edges, c.Triangles, c.Seed)
		}
		tw.Flush()
		if n > maxListed {
			fmt.Fprintf(w, "  ... and %d more\n", n-maxListed)
		}
	}

	if vs := s.Views(); len(vs) > 0 {
		fmt.Fprintf(w, "\n🎨 Views (%d)\n", len(vs))
		fmt.Fprintln(w, rule)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, v := range vs {
			fmt.Fprintf(tw, "  %s\t%s\t%d nodes\n", v.Color, v.Name, v.Count)
		}
		tw.Flush()
		if res.Classification != nil {
			if empty := res.Classification.Empty(); len(empty) > 0 {
				fmt.Fprintf(w, "  ⚠️  %d view(s) matched no nodes\n", len(empty))
			}
		}
	}

	if len(res.Zips) > 0 {
		zips := geo.Sorted(res.Zips)
		fmt.Fprintf(w, "\n🗺️  Zip codes (%d)\n", len(zips))
		fmt.Fprintln(w, rule)
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  Zip\tIndividuals\tTop cluster")
		for i, z := range zips {
			if i == maxListed {
				fmt.Fprintf(tw, "  ...\t%d more\t\n", len(zips)-maxListed)
				break
			}
			top := "-"
			if d := z.DominantClusters(); len(d) > 0 {
				top = fmt.Sprintf("%d (%d nodes)", d[0], z.ClusterCounts[d[0]])
			}
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", z.Zip, z.Individuals(), top)
		}
		tw.Flush()
	}
}
