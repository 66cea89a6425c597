package attributes

import (
	"fmt"
	"strings"
	"time"
)

// Kind is how a category's values are compared.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindDate:
		return "date"
	default:
		return "categorical"
	}
}

// Ranged reports whether values of this kind are bucketed into intervals.
func (k Kind) Ranged() bool { return k == KindNumeric || k == KindDate }

// ParseKind accepts "categorical", "numeric" or "date", case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "categorical", "string":
		return KindCategorical, nil
	case "numeric", "number":
		return KindNumeric, nil
	case "date":
		return KindDate, nil
	}
	return KindCategorical, fmt.Errorf("%w: unknown kind %q", ErrKindMismatch, s)
}

// DateLayouts are tried in order when reading date values.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// DateLabelLayout formats date boundaries in range labels.
const DateLabelLayout = "2006-01-02"

// ParseDate reads s with the first matching layout, as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q is not a date", ErrKindMismatch, s)
}
