package graph

import "strings"

// KeySeparator joins the two endpoint ids of a canonical edge key.
const KeySeparator = "-"

// Edge is an undirected, weighted pairwise relationship. Source and Target keep the
// orientation they had in the input file; identity is given by Key.
type Edge struct {
	Source   string
	Target   string
	Distance float64
}

// Key returns the canonical key of e.
func (e Edge) Key() string {
	return Key(e.Source, e.Target)
}

// Canonical orders two ids so that (a,b) and (b,a) produce the same pair.
func Canonical(a, b string) (lo, hi string) {
	if strings.Compare(a, b) <= 0 {
		return a, b
	}
	return b, a
}

// Key returns min(a,b) + "-" + max(a,b) under byte-wise string order.
func Key(a, b string) string {
	lo, hi := Canonical(a, b)
	return lo + KeySeparator + hi
}
