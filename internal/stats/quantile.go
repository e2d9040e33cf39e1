package stats

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile (q in [0,1]) of the non-NaN values,
// using linear interpolation between the two closest ranks. Reports false
// when there are no usable values.
func Quantile(values []float64, q float64) (float64, bool) {
	valid := validValues(values)
	if len(valid) == 0 {
		return 0, false
	}
	sort.Float64s(valid)
	return quantileSorted(valid, q), true
}

// quantileSorted interpolates over an already-sorted, NaN-free slice.
func quantileSorted(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// validValues copies values with NaN entries removed.
func validValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
