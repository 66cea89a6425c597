package attributes

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultIntervals is the number of evenly spaced intervals a ranged category starts with.
const DefaultIntervals = 5

// Category is one attribute column.
type Category struct {
	Name string
	Kind Kind
	// Domain holds the distinct values of a categorical column, sorted, with "other"
	// last. Nil for ranged kinds.
	Domain []string
	// Boundaries of a numeric or date column, strictly increasing while valid. Dates are
	// stored as Unix seconds.
	Boundaries []float64
	// Zip marks the column used for geographic roll-ups.
	Zip bool

	invalid string
	values  []string
}

// Invalid reports whether the boundaries are out of order.
func (c *Category) Invalid() bool { return c.invalid != "" }

// Reason explains why the category is invalid, or is empty.
func (c *Category) Reason() string { return c.invalid }

// Err returns ErrCategoryInvalid with the reason, or nil.
func (c *Category) Err() error {
	if c.invalid == "" {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrCategoryInvalid, c.Name, c.invalid)
}

// Value reads a raw value as a number on this category's scale. Categorical columns
// and empty, unreadable or non-finite values report false.
func (c *Category) Value(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	switch c.Kind {
	case KindNumeric:
		return parseFinite(raw)
	case KindDate:
		t, err := ParseDate(raw)
		if err != nil {
			return 0, false
		}
		return float64(t.Unix()), true
	}
	return 0, false
}

// Format renders a boundary the way range labels do.
func (c *Category) Format(v float64) string {
	if c.Kind == KindDate {
		return time.Unix(int64(v), 0).UTC().Format(DateLabelLayout)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Interval is a closed range [Lo, Hi].
type Interval struct {
	Lo, Hi float64
}

// Intervals returns consecutive boundary pairs.
func (c *Category) Intervals() []Interval {
	if len(c.Boundaries) < 2 {
		return nil
	}
	out := make([]Interval, len(c.Boundaries)-1)
	for i := range out {
		out[i] = Interval{Lo: c.Boundaries[i], Hi: c.Boundaries[i+1]}
	}
	return out
}

// RangeLabels renders each interval as "lo - hi", usable as a view selector.
func (c *Category) RangeLabels() []string {
	intervals := c.Intervals()
	out := make([]string, len(intervals))
	for i, iv := range intervals {
		out[i] = c.Format(iv.Lo) + RangeSeparator + c.Format(iv.Hi)
	}
	return out
}

// Options lists the selector values a view may use for this category, excluding All.
func (c *Category) Options() []string {
	if c.Kind.Ranged() {
		return c.RangeLabels()
	}
	return append([]string(nil), c.Domain...)
}

// RangeSeparator joins the two ends of a range label.
const RangeSeparator = " - "

// ParseRange reads a "lo - hi" selector on this category's scale.
func (c *Category) ParseRange(s string) (lo, hi float64, err error) {
	parts := strings.Split(s, RangeSeparator)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not a range", ErrInvalidInterval, s)
	}
	var ok bool
	if lo, ok = c.Value(parts[0]); !ok {
		return 0, 0, fmt.Errorf("%w: bad lower bound in %q", ErrInvalidInterval, s)
	}
	if hi, ok = c.Value(parts[1]); !ok {
		return 0, 0, fmt.Errorf("%w: bad upper bound in %q", ErrInvalidInterval, s)
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("%w: %q is reversed", ErrInvalidInterval, s)
	}
	return lo, hi, nil
}

// InsertBoundary adds the midpoint of boundaries i and i+1.
func (c *Category) InsertBoundary(i int) error {
	if err := c.requireRanged(); err != nil {
		return err
	}
	if i < 0 || i >= len(c.Boundaries)-1 {
		return fmt.Errorf("%w: no interval at %d", ErrInvalidInterval, i)
	}
	mid := (c.Boundaries[i] + c.Boundaries[i+1]) / 2
	c.Boundaries = append(c.Boundaries[:i+1], append([]float64{mid}, c.Boundaries[i+1:]...)...)
	c.revalidate()
	return nil
}

// DeleteBoundary removes an interior boundary, merging its two intervals. The first
// and last boundaries are fixed.
func (c *Category) DeleteBoundary(i int) error {
	if err := c.requireRanged(); err != nil {
		return err
	}
	if i <= 0 || i >= len(c.Boundaries)-1 {
		return fmt.Errorf("%w: boundary %d cannot be deleted", ErrInvalidInterval, i)
	}
	c.Boundaries = append(c.Boundaries[:i], c.Boundaries[i+1:]...)
	c.revalidate()
	return nil
}

// SetBoundary replaces boundary i. An edit that breaks the ordering is applied but
// leaves the category invalid until a later edit restores it.
func (c *Category) SetBoundary(i int, v float64) error {
	if err := c.requireRanged(); err != nil {
		return err
	}
	if i < 0 || i >= len(c.Boundaries) {
		return fmt.Errorf("%w: no boundary %d", ErrInvalidInterval, i)
	}
	c.Boundaries[i] = v
	c.revalidate()
	return c.Err()
}

func (c *Category) requireRanged() error {
	if !c.Kind.Ranged() {
		return fmt.Errorf("%w: %s is %s", ErrKindMismatch, c.Name, c.Kind)
	}
	return nil
}

func (c *Category) revalidate() {
	c.invalid = ""
	for i, b := range c.Boundaries {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			c.invalid = fmt.Sprintf("boundary %d is not a number", i)
			return
		}
		if i > 0 && b <= c.Boundaries[i-1] {
			c.invalid = fmt.Sprintf("boundary %d (%s) is not above boundary %d (%s)", i, c.Format(b), i-1, c.Format(c.Boundaries[i-1]))
			return
		}
	}
	if c.Kind.Ranged() && len(c.Boundaries) < 2 {
		c.invalid = "fewer than two boundaries"
	}
}

// reinterpret rebuilds the category's domain or boundaries as kind k from its raw values.
func (c *Category) reinterpret(k Kind) error {
	if k == KindCategorical {
		c.Kind, c.Boundaries, c.invalid = k, nil, ""
		c.Domain = domainOf(c.values)
		return nil
	}

	trial := &Category{Name: c.Name, Kind: k}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, raw := range c.values {
		v, ok := trial.Value(raw)
		if !ok {
			return fmt.Errorf("%w: %s value %q is not %s", ErrKindMismatch, c.Name, raw, k)
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if len(c.values) == 0 || lo == hi {
		return fmt.Errorf("%w: %s has no spread of %s values", ErrKindMismatch, c.Name, k)
	}

	trial.Boundaries = evenBoundaries(lo, hi, DefaultIntervals)
	trial.revalidate()
	if err := trial.Err(); err != nil {
		return err
	}
	c.Kind, c.Domain, c.Boundaries = k, nil, trial.Boundaries
	c.revalidate()
	return nil
}

// evenBoundaries splits [lo, hi] into n equal intervals. The last boundary is pinned to
// hi so accumulated rounding never drops the maximum.
func evenBoundaries(lo, hi float64, n int) []float64 {
	step := (hi - lo) / float64(n)
	out := make([]float64, n+1)
	for i := 0; i < n; i++ {
		out[i] = lo + float64(i)*step
	}
	out[n] = hi
	return out
}

func domainOf(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := isOther(out[i]), isOther(out[j])
		if oi != oj {
			return oj
		}
		return out[i] < out[j]
	})
	return out
}

func isOther(v string) bool { return strings.EqualFold(v, "other") }
