package loader

import (
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
)

// Delimiter picks the field separator from a file name: ".csv" is comma separated,
// ".tsv" and ".txt" are tab separated.
func Delimiter(name string) (rune, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return ',', nil
	case ".tsv", ".txt":
		return '\t', nil
	}
	return 0, &ParseError{File: name, Cause: ErrUnsupportedFormat}
}

// ReadAttributes reads an attribute table. The first line names the columns and the
// first column is the individual id. A row whose width differs from the header rejects
// the whole file.
func ReadAttributes(r io.Reader, name string) (*attributes.Table, error) {
	comma, err := Delimiter(name)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{File: name, Line: 1, Cause: ErrNoData}
	}
	if err != nil {
		return nil, csvError(name, err)
	}
	if len(header) < 2 || len(header) > attributes.MaxColumns {
		return nil, &ParseError{File: name, Line: 1, Cause: attributes.ErrTooManyCategories}
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(name, err)
		}
		if len(row) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, parseError(name, line, "%w: %d columns, header has %d", ErrMalformedRow, len(row), len(header))
		}
		rows = append(rows, row)
	}

	table, err := attributes.NewTable(header, rows)
	if err != nil {
		return nil, &ParseError{File: name, Cause: err}
	}
	return table, nil
}

func csvError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return parseError(name, pe.Line, "%w: %v", ErrMalformedRow, pe.Err)
	}
	return &ParseError{File: name, Cause: err}
}
