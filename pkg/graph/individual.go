package graph

import "strings"

// DefaultDelimiter separates the parts of a compound sequence id.
const DefaultDelimiter = "|"

// Resolver maps a node id to the individual id used to join attribute records.
type Resolver func(nodeID string) string

// IndividualID returns the second delim-separated field of id, or id itself when there
// is no such field.
func IndividualID(id, delim string) string { return field(id, delim, 1) }

func field(id, delim string, n int) string {
	if delim == "" || n < 0 {
		return id
	}
	parts := strings.SplitN(id, delim, n+2)
	if len(parts) <= n {
		return id
	}
	return parts[n]
}

// NewResolver returns a Resolver taking the second field after splitting on delim.
func NewResolver(delim string) Resolver { return FieldResolver(delim, 1) }

// FieldResolver returns a Resolver taking field n (0-based) after splitting on delim.
func FieldResolver(delim string, n int) Resolver {
	return func(id string) string { return field(id, delim, n) }
}
