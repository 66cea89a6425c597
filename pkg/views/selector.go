package views

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dd0wney/cluso-seqnet/pkg/attributes"
)

// All is the wildcard selector value.
const All = "All"

// Selector constrains one category of a view.
type Selector struct {
	Category string
	// Value is the wildcard, an exact categorical value or a "lo - hi" range.
	Value string

	ranged bool
	lo, hi float64
}

// IsAll reports whether the selector is the wildcard.
func (s Selector) IsAll() bool { return s.Value == All }

// Range returns the parsed bounds of a range selector.
func (s Selector) Range() (lo, hi float64, ok bool) {
	return s.lo, s.hi, s.ranged
}

func (s Selector) String() string { return s.Value }

// parseSelector binds value to category c. Ranged categories must be valid to accept a
// range selector.
func parseSelector(c *attributes.Category, value string) (Selector, error) {
	value = strings.TrimSpace(value)
	sel := Selector{Category: c.Name, Value: value}
	if value == All {
		return sel, nil
	}

	if !c.Kind.Ranged() {
		if !slices.Contains(c.Domain, value) {
			return sel, fmt.Errorf("%w: %q is not a value of %s", ErrInvalidSelector, value, c.Name)
		}
		return sel, nil
	}

	if err := c.Err(); err != nil {
		return sel, err
	}
	lo, hi, err := c.ParseRange(value)
	if err != nil {
		return sel, fmt.Errorf("%w: %s: %w", ErrInvalidSelector, c.Name, err)
	}
	sel.ranged, sel.lo, sel.hi = true, lo, hi
	return sel, nil
}

// Match evaluates the selector against a record's raw value for category c. Ranges are
// inclusive at both ends.
func (s Selector) Match(c *attributes.Category, raw string) bool {
	if s.IsAll() {
		return true
	}
	if s.ranged && c != nil && c.Kind.Ranged() {
		v, ok := c.Value(raw)
		return ok && v >= s.lo && v <= s.hi
	}
	return raw == s.Value
}
