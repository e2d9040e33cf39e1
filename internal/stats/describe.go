// Package stats computes descriptive statistics and correlation summaries
// over cleaned observation tables. Measures that cannot be determined from
// the available sample are reported as invalid Null values, never as zeros.
package stats

import (
	"database/sql"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lox/weatherscope/internal/dataset"
)

// DefaultPercentiles is the standard percentile set for a Record.
var DefaultPercentiles = []float64{10, 25, 50, 75, 90, 95, 99}

// Percentile is one requested percentile (0-100) and its value.
type Percentile struct {
	P     float64
	Value sql.NullFloat64
}

// Record holds the descriptive statistics of one numeric column. Any
// measure the sample cannot support is left invalid: standard deviation and
// variance need at least 2 values, skewness 3, kurtosis 4.
type Record struct {
	Column  string
	Count   int
	Missing int

	Mean     sql.NullFloat64
	Median   sql.NullFloat64
	Mode     sql.NullFloat64
	StdDev   sql.NullFloat64
	Variance sql.NullFloat64
	Min      sql.NullFloat64
	Max      sql.NullFloat64
	Range    sql.NullFloat64
	IQR      sql.NullFloat64
	Skewness sql.NullFloat64
	Kurtosis sql.NullFloat64

	Percentiles []Percentile
}

// Describe computes one Record per requested column. Percentiles defaults to
// DefaultPercentiles when nil. Columns absent from the table yield a Record
// with Count 0 and all measures undefined; Describe never fails on sparse
// input.
func Describe(t dataset.Table, cols []string, percentiles []float64) []Record {
	if percentiles == nil {
		percentiles = DefaultPercentiles
	}
	records := make([]Record, 0, len(cols))
	for _, col := range cols {
		records = append(records, DescribeColumn(t, col, percentiles))
	}
	return records
}

// DescribeColumn computes the Record for a single column.
func DescribeColumn(t dataset.Table, col string, percentiles []float64) Record {
	if percentiles == nil {
		percentiles = DefaultPercentiles
	}
	rec := Record{Column: col, Missing: t.NumRows()}

	vals := t.Floats(col)
	valid := validValues(vals)
	rec.Count = len(valid)
	if vals != nil {
		rec.Missing = len(vals) - len(valid)
	}
	if len(valid) == 0 {
		rec.Percentiles = make([]Percentile, len(percentiles))
		for i, p := range percentiles {
			rec.Percentiles[i] = Percentile{P: p}
		}
		return rec
	}

	sorted := make([]float64, len(valid))
	copy(sorted, valid)
	sort.Float64s(sorted)
	n := len(sorted)

	rec.Mean = valueOf(stat.Mean(valid, nil))
	rec.Median = valueOf(quantileSorted(sorted, 0.5))
	rec.Mode = valueOf(modeSorted(sorted))
	rec.Min = valueOf(sorted[0])
	rec.Max = valueOf(sorted[n-1])
	rec.Range = valueOf(sorted[n-1] - sorted[0])
	rec.IQR = valueOf(quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25))

	if n >= 2 {
		rec.StdDev = valueOf(stat.StdDev(valid, nil))
		rec.Variance = valueOf(stat.Variance(valid, nil))
	}
	if n >= 3 {
		rec.Skewness = valueOf(stat.Skew(valid, nil))
	}
	if n >= 4 {
		rec.Kurtosis = valueOf(stat.ExKurtosis(valid, nil))
	}

	rec.Percentiles = make([]Percentile, len(percentiles))
	for i, p := range percentiles {
		rec.Percentiles[i] = Percentile{P: p, Value: valueOf(quantileSorted(sorted, p/100))}
	}
	return rec
}

// modeSorted returns the most frequent value; on ties, the first one in
// sorted order (the smallest).
func modeSorted(sorted []float64) float64 {
	best := sorted[0]
	bestRun := 0
	run := 0
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		if run > bestRun {
			bestRun = run
			best = v
		}
	}
	return best
}

func valueOf(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
