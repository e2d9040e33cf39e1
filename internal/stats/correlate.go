package stats

import (
	"database/sql"
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lox/weatherscope/internal/dataset"
)

// ErrInsufficientData reports a correlation request where no requested
// column is usable (non-constant, non-empty).
var ErrInsufficientData = errors.New("correlation requires at least one non-constant column")

// Matrix is a symmetric Pearson correlation matrix. The diagonal is always
// a valid 1.0; off-diagonal cells involving a constant or empty column are
// invalid, which is distinct from a computed 0.0.
type Matrix struct {
	Columns []string
	Coeffs  [][]sql.NullFloat64
}

// At returns the coefficient for a column pair.
func (m Matrix) At(a, b string) (sql.NullFloat64, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return sql.NullFloat64{}, false
	}
	return m.Coeffs[ia][ib], true
}

// Pair is one distinct unordered column pair and its coefficient. A is
// always the lexically smaller name.
type Pair struct {
	A, B string
	R    sql.NullFloat64
}

// Correlate computes the full matrix over cols plus the distinct pairs
// ranked by descending absolute coefficient (ties by the pair's names,
// undefined pairs last). Pairs involving unusable columns are kept in the
// output, marked invalid, so partial reports never silently omit an entry.
// It fails only when none of the requested columns is usable.
func Correlate(t dataset.Table, cols []string) (Matrix, []Pair, error) {
	values := make([][]float64, len(cols))
	usable := make([]bool, len(cols))
	usableCount := 0
	for i, col := range cols {
		values[i] = t.Floats(col)
		valid := validValues(values[i])
		if len(valid) >= 2 && stat.Variance(valid, nil) > 0 {
			usable[i] = true
			usableCount++
		}
	}
	if usableCount == 0 {
		return Matrix{}, nil, ErrInsufficientData
	}

	m := Matrix{Columns: append([]string(nil), cols...)}
	m.Coeffs = make([][]sql.NullFloat64, len(cols))
	for i := range m.Coeffs {
		m.Coeffs[i] = make([]sql.NullFloat64, len(cols))
		m.Coeffs[i][i] = sql.NullFloat64{Float64: 1, Valid: true}
	}

	var pairs []Pair
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := pairCoefficient(values[i], values[j], usable[i] && usable[j])
			m.Coeffs[i][j] = r
			m.Coeffs[j][i] = r
			a, b := cols[i], cols[j]
			if b < a {
				a, b = b, a
			}
			pairs = append(pairs, Pair{A: a, B: b, R: r})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		pi, pj := pairs[i], pairs[j]
		if pi.R.Valid != pj.R.Valid {
			return pi.R.Valid
		}
		if pi.R.Valid {
			ai, aj := math.Abs(pi.R.Float64), math.Abs(pj.R.Float64)
			if ai != aj {
				return ai > aj
			}
		}
		if pi.A != pj.A {
			return pi.A < pj.A
		}
		return pi.B < pj.B
	})

	return m, pairs, nil
}

// pairCoefficient computes Pearson's r over rows where both columns have a
// value, clamped to [-1, 1].
func pairCoefficient(x, y []float64, usable bool) sql.NullFloat64 {
	if !usable || len(x) != len(y) {
		return sql.NullFloat64{}
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return sql.NullFloat64{}
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return sql.NullFloat64{}
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return sql.NullFloat64{Float64: r, Valid: true}
}
