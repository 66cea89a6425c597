package stats

import (
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

// Number is any value a summary can be taken over.
type Number interface {
	constraints.Integer | constraints.Float
}

// Mean returns the arithmetic mean of xs.
func Mean[T Number](xs []T) Measure {
	if len(xs) == 0 {
		return NA
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return Of(sum / float64(len(xs)))
}

// Median returns the element at index floor(n/2) of xs in ascending order, so an
// even-length input yields the upper of the two middle values. xs is not modified.
func Median[T Number](xs []T) Measure {
	if len(xs) == 0 {
		return NA
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return Of(float64(sorted[len(sorted)/2]))
}

// Ratio returns num/den, not applicable when den is zero.
func Ratio[N, D Number](num N, den D) Measure {
	if den == 0 {
		return NA
	}
	return Of(float64(num) / float64(den))
}

// Pearson returns the correlation coefficient of the paired samples xs and ys. It is
// not applicable for fewer than two pairs or when either sample has zero variance.
func Pearson[T Number](xs, ys []T) Measure {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return NA
	}

	var sx, sy float64
	for i := range xs {
		sx += float64(xs[i])
		sy += float64(ys[i])
	}
	mx, my := sx/float64(n), sy/float64(n)

	var num, vx, vy float64
	for i := range xs {
		dx := float64(xs[i]) - mx
		dy := float64(ys[i]) - my
		num += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return NA
	}
	return Of(num / math.Sqrt(vx*vy))
}
