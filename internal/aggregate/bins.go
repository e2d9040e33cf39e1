package aggregate

import (
	"fmt"
	"math"

	"github.com/lox/weatherscope/internal/dataset"
)

// Bin is one equal-width interval of the binning column and the mean of the
// companion column over rows falling in it.
type Bin struct {
	Low   float64
	High  float64
	Mean  float64
	Count int
}

// EqualWidthBins splits binCol's observed range into n equal-width intervals
// and computes the mean of col within each. Intervals are [low, high) except
// the last, which includes the maximum. Empty intervals are omitted. Used for
// relations like mean temperature difference by wind-speed range.
func EqualWidthBins(t dataset.Table, binCol, col string, n int) ([]Bin, error) {
	if n < 1 {
		return nil, fmt.Errorf("aggregate: bin count must be positive, got %d", n)
	}
	binVals := t.Floats(binCol)
	if binVals == nil {
		return nil, fmt.Errorf("aggregate: no column %q", binCol)
	}
	vals := t.Floats(col)
	if vals == nil {
		return nil, fmt.Errorf("aggregate: no column %q", col)
	}

	low, high := math.Inf(1), math.Inf(-1)
	for _, v := range binVals {
		if math.IsNaN(v) {
			continue
		}
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}
	if low > high {
		return nil, fmt.Errorf("aggregate: column %q has no values to bin", binCol)
	}

	width := (high - low) / float64(n)
	sums := make([]float64, n)
	counts := make([]int, n)
	for i, bv := range binVals {
		if math.IsNaN(bv) || math.IsNaN(vals[i]) {
			continue
		}
		idx := n - 1
		if width > 0 {
			idx = int((bv - low) / width)
			if idx >= n {
				idx = n - 1
			}
		}
		sums[idx] += vals[i]
		counts[idx]++
	}

	bins := make([]Bin, 0, n)
	for i := 0; i < n; i++ {
		if counts[i] == 0 {
			continue
		}
		bins = append(bins, Bin{
			Low:   low + float64(i)*width,
			High:  low + float64(i+1)*width,
			Mean:  sums[i] / float64(counts[i]),
			Count: counts[i],
		})
	}
	return bins, nil
}
