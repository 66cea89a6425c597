// Package attributes models the per-individual attribute table: its categories, their
// kinds and interval partitions, and the records keyed by individual id.
package attributes

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// MaxColumns bounds the number of columns, key column included.
const MaxColumns = 255

// Record is one row of the table.
type Record struct {
	ID     string
	Values map[string]string
}

// Get returns the raw value for a category.
func (r *Record) Get(category string) string {
	if r == nil {
		return ""
	}
	return r.Values[category]
}

// Categories is the ordered set of attribute columns, key column excluded.
type Categories struct {
	order  []*Category
	byName map[string]*Category
}

// Len returns the number of categories.
func (cs *Categories) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.order)
}

// All returns the categories in column order.
func (cs *Categories) All() []*Category {
	if cs == nil {
		return nil
	}
	return cs.order
}

// Names returns category names in column order.
func (cs *Categories) Names() []string {
	out := make([]string, 0, cs.Len())
	for _, c := range cs.All() {
		out = append(out, c.Name)
	}
	return out
}

// Get looks up a category by name.
func (cs *Categories) Get(name string) (*Category, bool) {
	if cs == nil {
		return nil, false
	}
	c, ok := cs.byName[name]
	return c, ok
}

func (cs *Categories) mustGet(name string) (*Category, error) {
	c, ok := cs.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	return c, nil
}

// SetKind reinterprets a column. On failure the category is left unchanged.
func (cs *Categories) SetKind(name string, k Kind) error {
	c, err := cs.mustGet(name)
	if err != nil {
		return err
	}
	if c.Kind == k {
		return nil
	}
	if c.Zip && k != KindCategorical {
		return fmt.Errorf("%w: zip category %s must stay categorical", ErrKindMismatch, name)
	}
	return c.reinterpret(k)
}

// MarkZip flags name as the single zip category, clearing any previous one. The
// column is made categorical since zip codes are labels, not quantities.
func (cs *Categories) MarkZip(name string) error {
	c, err := cs.mustGet(name)
	if err != nil {
		return err
	}
	if c.Kind != KindCategorical {
		if err := c.reinterpret(KindCategorical); err != nil {
			return err
		}
	}
	for _, other := range cs.order {
		other.Zip = false
	}
	c.Zip = true
	return nil
}

// Zip returns the zip category, if one is flagged.
func (cs *Categories) Zip() (*Category, bool) {
	for _, c := range cs.All() {
		if c.Zip {
			return c, true
		}
	}
	return nil, false
}

// Invalid returns the categories whose intervals are out of order.
func (cs *Categories) Invalid() []*Category {
	var out []*Category
	for _, c := range cs.All() {
		if c.Invalid() {
			out = append(out, c)
		}
	}
	return out
}

// Table is a parsed attribute file.
type Table struct {
	// Key is the header of the first column.
	Key        string
	Categories *Categories
	records    map[string]*Record
	ids        []string
}

// NewTable infers categories from a header and rows that already have the header's
// width. Columns whose non-empty values all parse as numbers become numeric with
// DefaultIntervals even intervals over [min, max]; a numeric column with a single
// distinct value stays categorical. A repeated id replaces the earlier record.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) < 2 || len(header) > MaxColumns {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyCategories, len(header))
	}

	t := &Table{
		Key:        strings.TrimSpace(header[0]),
		Categories: &Categories{byName: make(map[string]*Category, len(header)-1)},
		records:    make(map[string]*Record, len(rows)),
	}
	cols := make([]*Category, len(header)-1)
	for j, name := range header[1:] {
		name = strings.TrimSpace(name)
		if _, dup := t.Categories.byName[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrUnknownCategory, name)
		}
		c := &Category{Name: name}
		cols[j] = c
		t.Categories.order = append(t.Categories.order, c)
		t.Categories.byName[name] = c
	}

	for _, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row has %d columns, header has %d", len(row), len(header))
		}
		id := strings.TrimSpace(row[0])
		rec := &Record{ID: id, Values: make(map[string]string, len(cols))}
		for j, c := range cols {
			v := strings.TrimSpace(row[j+1])
			rec.Values[c.Name] = v
		}
		if _, seen := t.records[id]; !seen {
			t.ids = append(t.ids, id)
		}
		t.records[id] = rec
	}
	for _, id := range t.ids {
		rec := t.records[id]
		for _, c := range cols {
			if v := rec.Values[c.Name]; v != "" {
				c.values = append(c.values, v)
			}
		}
	}

	for _, c := range cols {
		if allNumeric(c.values) && c.reinterpret(KindNumeric) == nil {
			continue
		}
		_ = c.reinterpret(KindCategorical)
	}
	return t, nil
}

func allNumeric(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if _, ok := parseFinite(v); !ok {
			return false
		}
	}
	return true
}

// parseFinite parses v as a float, rejecting NaN and the infinities.
func parseFinite(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Lookup returns the record for an individual id.
func (t *Table) Lookup(id string) (*Record, bool) {
	if t == nil {
		return nil, false
	}
	r, ok := t.records[id]
	return r, ok
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// IDs returns record ids in first-seen order.
func (t *Table) IDs() []string {
	if t == nil {
		return nil
	}
	return t.ids
}

// ApplyKinds applies configured kind overrides by category name.
func (t *Table) ApplyKinds(kinds map[string]Kind) error {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := t.Categories.SetKind(name, kinds[name]); err != nil {
			return err
		}
	}
	return nil
}
