// Package views defines attribute-predicate views and classifies nodes against them.
package views

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
	"github.com/dd0wney/cluso-seqnet/pkg/validation"
)

// DefaultColor is the colour of nodes matching no view.
const DefaultColor = "#000000"

// Palette supplies colours for views created without one.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// View is a named, coloured conjunction of per-category selectors.
type View struct {
	ID        string
	Name      string
	Color     string
	Selectors []Selector
	// Count is the number of nodes matched at the last classification.
	Count int
}

// Clone returns a copy that shares nothing with v.
func (v *View) Clone() *View {
	c := *v
	c.Selectors = append([]Selector(nil), v.Selectors...)
	return &c
}

// Request describes a view to create. Selectors are given in category order.
type Request struct {
	Color     string   `validate:"omitempty,hexcolor"`
	Selectors []string `validate:"required,min=1,dive,required"`
}

// IDSeparator joins selector values in a view ID.
const IDSeparator = "|"

var idEscaper = strings.NewReplacer(`\`, `\\`, IDSeparator, `\`+IDSeparator)

// ViewID joins selector values in category order. Backslashes and separators inside a
// value are escaped, so distinct selector tuples never share an ID.
func ViewID(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = idEscaper.Replace(v)
	}
	return strings.Join(escaped, IDSeparator)
}

// ViewName lists the non-wildcard selectors as "Category-value", or "All".
func ViewName(selectors []Selector) string {
	var parts []string
	for _, s := range selectors {
		if !s.IsAll() {
			parts = append(parts, s.Category+"-"+s.Value)
		}
	}
	if len(parts) == 0 {
		return All
	}
	return strings.Join(parts, ", ")
}

// PaletteColor picks a palette colour from id. The same id always gets the same colour.
func PaletteColor(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// build validates req against cats and constructs the view.
func build(cats *attributes.Categories, req Request) (*View, error) {
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSelector, err)
	}
	all := cats.All()
	if len(req.Selectors) != len(all) {
		return nil, fmt.Errorf("%w: %d selectors for %d categories", ErrInvalidSelector, len(req.Selectors), len(all))
	}

	v := &View{Selectors: make([]Selector, len(all))}
	values := make([]string, len(all))
	for i, c := range all {
		sel, err := parseSelector(c, req.Selectors[i])
		if err != nil {
			return nil, err
		}
		v.Selectors[i] = sel
		values[i] = sel.Value
	}
	v.ID = ViewID(values)
	v.Name = ViewName(v.Selectors)
	v.Color = strings.ToLower(req.Color)
	if v.Color == "" {
		v.Color = PaletteColor(v.ID)
	}
	return v, nil
}

// Match reports whether every selector accepts rec.
func (v *View) Match(cats *attributes.Categories, rec *attributes.Record) bool {
	for _, s := range v.Selectors {
		c, _ := cats.Get(s.Category)
		if !s.Match(c, rec.Get(s.Category)) {
			return false
		}
	}
	return true
}
