// Package loader streams the edge list and reads the attribute table into the types the
// graph and attribute packages work on.
package loader

import (
	"bufio"
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-seqnet/pkg/graph"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
)

const (
	// DefaultMaxThreshold is the ingestion ceiling: rows at or above it are discarded.
	DefaultMaxThreshold = 0.05

	maxLineBytes = 16 << 20
	checkEvery   = 1 << 16
)

// EdgeOptions configures ReadEdges.
type EdgeOptions struct {
	// Name identifies the input in errors and logs.
	Name string
	// MaxThreshold is the ingestion ceiling; zero means DefaultMaxThreshold.
	MaxThreshold float64
	// Strict rejects the file on the first unparseable distance instead of skipping the row.
	Strict bool
	Logger logging.Logger
}

// EdgeReport counts what happened to each data row.
type EdgeReport struct {
	Rows         int
	Accepted     int
	Duplicates   int
	MissingID    int
	Malformed    int
	AboveCeiling int
}

// EdgeSet is the ingested edge list.
type EdgeSet struct {
	// Edges below the ceiling, in first-seen order. A repeated pair keeps its first
	// position and the last distance read.
	Edges []graph.Edge
	// Universe holds every id named on a row with both ids present, in first-seen order.
	Universe []string
	Report   EdgeReport
}

// ReadEdges streams SOURCE<TAB>TARGET<TAB>DISTANCE rows after a header line.
func ReadEdges(ctx context.Context, r io.Reader, opts EdgeOptions) (*EdgeSet, error) {
	ceiling := opts.MaxThreshold
	if ceiling <= 0 {
		ceiling = DefaultMaxThreshold
	}
	log := logging.OrDefault(opts.Logger).With(logging.Component("loader"), logging.Path(opts.Name))

	set := &EdgeSet{}
	seen := make(map[string]struct{})
	position := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		set.Report.Rows++

		cols := strings.Split(text, "\t")
		var src, tgt string
		if len(cols) >= 2 {
			src, tgt = strings.TrimSpace(cols[0]), strings.TrimSpace(cols[1])
		}
		if src == "" || tgt == "" {
			set.Report.MissingID++
			continue
		}
		for _, id := range [2]string{src, tgt} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				set.Universe = append(set.Universe, id)
			}
		}

		var dist float64
		var err error
		if len(cols) < 3 {
			err = strconv.ErrSyntax
		} else {
			dist, err = strconv.ParseFloat(strings.TrimSpace(cols[2]), 64)
		}
		if err != nil || math.IsNaN(dist) {
			if opts.Strict {
				return nil, &ParseError{File: opts.Name, Line: line, Cause: ErrMalformedRow}
			}
			set.Report.Malformed++
			log.Debug("skipping row with unreadable distance", logging.Int("line", line))
			continue
		}
		if dist >= ceiling {
			set.Report.AboveCeiling++
			continue
		}

		e := graph.Edge{Source: src, Target: tgt, Distance: dist}
		key := e.Key()
		if i, dup := position[key]; dup {
			set.Edges[i].Distance = dist
			set.Report.Duplicates++
			continue
		}
		position[key] = len(set.Edges)
		set.Edges = append(set.Edges, e)
		set.Report.Accepted++
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{File: opts.Name, Line: line + 1, Cause: err}
	}
	if line == 0 {
		return nil, &ParseError{File: opts.Name, Cause: ErrNoData}
	}

	log.Info("edges loaded",
		logging.Int("rows", set.Report.Rows),
		logging.Edges(len(set.Edges)),
		logging.Nodes(len(set.Universe)),
		logging.Int("malformed", set.Report.Malformed),
		logging.Int("above_ceiling", set.Report.AboveCeiling))
	return set, nil
}
