package stats

import (
	"encoding/json"
	"math"
	"strconv"
)

// Measure is a statistic that may be undefined for the input, such as transitivity with
// no triples or a correlation with zero variance.
type Measure struct {
	Value      float64
	Applicable bool
}

// NA is the not-applicable measure.
var NA = Measure{}

// Of wraps v, treating NaN and infinities as not applicable.
func Of(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return Measure{Value: v, Applicable: true}
}

// Float returns the value, or NaN when not applicable.
func (m Measure) Float() float64 {
	if !m.Applicable {
		return math.NaN()
	}
	return m.Value
}

// Format renders the value with prec decimals, or "n/a".
func (m Measure) Format(prec int) string {
	if !m.Applicable {
		return "n/a"
	}
	return strconv.FormatFloat(m.Value, 'f', prec, 64)
}

func (m Measure) String() string { return m.Format(4) }

// MarshalJSON encodes n/a as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Applicable {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}
