package loader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/graph"
	"github.com/dd0wney/cluso-seqnet/pkg/logging"
)

const edgeFile = "SOURCE\tTARGET\tDISTANCE\n" +
	"s1|A\ts2|B\t0.01\n" +
	"s2|B\ts3|C\t0.01\r\n" +
	"\ts4|D\t0.02\n" +
	"s1|A\ts3|C\t0.02\n" +
	"s4|D\ts5|E\tfar\n" +
	"s5|E\ts6|F\t0.05\n" +
	"s2|B\ts1|A\t0.005\n" +
	"\n"

func readEdges(t *testing.T, in string, opts EdgeOptions) (*EdgeSet, error) {
	t.Helper()
	opts.Logger = logging.NewNopLogger()
	if opts.Name == "" {
		opts.Name = "edges.tsv"
	}
	return ReadEdges(context.Background(), strings.NewReader(in), opts)
}

func TestReadEdges(t *testing.T) {
	set, err := readEdges(t, edgeFile, EdgeOptions{})
	require.NoError(t, err)

	assert.Equal(t, []graph.Edge{
		{Source: "s1|A", Target: "s2|B", Distance: 0.005},
		{Source: "s2|B", Target: "s3|C", Distance: 0.01},
		{Source: "s1|A", Target: "s3|C", Distance: 0.02},
	}, set.Edges)
	assert.Equal(t, []string{"s1|A", "s2|B", "s3|C", "s4|D", "s5|E", "s6|F"}, set.Universe)
	assert.Equal(t, EdgeReport{
		Rows:         7,
		Accepted:     3,
		Duplicates:   1,
		MissingID:    1,
		Malformed:    1,
		AboveCeiling: 1,
	}, set.Report)
}

func TestReadEdges_Ceiling(t *testing.T) {
	set, err := readEdges(t, edgeFile, EdgeOptions{MaxThreshold: 0.015})
	require.NoError(t, err)
	for _, e := range set.Edges {
		assert.Less(t, e.Distance, 0.015)
	}
	assert.Len(t, set.Edges, 2)
	assert.Equal(t, 2, set.Report.AboveCeiling)
}

func TestReadEdges_Strict(t *testing.T) {
	_, err := readEdges(t, edgeFile, EdgeOptions{Strict: true})
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "edges.tsv", pe.File)
	assert.Equal(t, 6, pe.Line)
	assert.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "edges.tsv:6")
}

func TestReadEdges_Empty(t *testing.T) {
	_, err := readEdges(t, "", EdgeOptions{})
	assert.ErrorIs(t, err, ErrNoData)

	set, err := readEdges(t, "SOURCE\tTARGET\tDISTANCE\n", EdgeOptions{})
	require.NoError(t, err)
	assert.Empty(t, set.Edges)
	assert.Empty(t, set.Universe)
}

func TestReadEdges_Cancelled(t *testing.T) {
	var b strings.Builder
	b.WriteString("h\n")
	for i := 0; i < checkEvery+10; i++ {
		b.WriteString("a\tb\t0.01\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ReadEdges(ctx, strings.NewReader(b.String()), EdgeOptions{Logger: logging.NewNopLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		want    rune
		wantErr bool
	}{
		{"data.csv", ',', false},
		{"DATA.CSV", ',', false},
		{"data.tsv", '\t', false},
		{"data.txt", '\t', false},
		{"data.xlsx", 0, true},
		{"data", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Delimiter(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadAttributes(t *testing.T) {
	in := "ID,Age,Sex\nA,10,F\nB,60,M\nC,35,other\n"
	table, err := ReadAttributes(strings.NewReader(in), "people.csv")
	require.NoError(t, err)

	assert.Equal(t, "ID", table.Key)
	assert.Equal(t, 3, table.Len())
	age, ok := table.Categories.Get("Age")
	require.True(t, ok)
	assert.Equal(t, attributes.KindNumeric, age.Kind)
	assert.Equal(t, []float64{10, 20, 30, 40, 50, 60}, age.Boundaries)

	rec, ok := table.Lookup("C")
	require.True(t, ok)
	assert.Equal(t, "other", rec.Get("Sex"))
}

func TestReadAttributes_Tab(t *testing.T) {
	in := "ID\tCountry\nA\tKenya\nB\tPeru\n"
	table, err := ReadAttributes(strings.NewReader(in), "people.tsv")
	require.NoError(t, err)
	c, _ := table.Categories.Get("Country")
	assert.Equal(t, []string{"Kenya", "Peru"}, c.Domain)
}

func TestReadAttributes_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		in     string
		target error
		line   int
	}{
		{"width mismatch", "a.csv", "ID,Age\nA,1\nB,2,3\n", ErrMalformedRow, 3},
		{"single column", "a.csv", "ID\nA\n", attributes.ErrTooManyCategories, 1},
		{"empty", "a.csv", "", ErrNoData, 1},
		{"extension", "a.json", "ID,Age\n", ErrUnsupportedFormat, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadAttributes(strings.NewReader(tt.in), tt.file)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}
