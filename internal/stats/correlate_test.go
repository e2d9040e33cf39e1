package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gota/gota/series"
)

func TestCorrelatePerfectLinear(t *testing.T) {
	tbl := statsTable(t,
		series.New([]float64{1, 2, 3, 4, 5}, series.Float, "temperature"),
		series.New([]float64{2, 4, 6, 8, 10}, series.Float, "apparent_temperature"),
	)
	m, pairs, err := Correlate(tbl, []string{"temperature", "apparent_temperature"})
	if err != nil {
		t.Fatal(err)
	}
	r, ok := m.At("temperature", "apparent_temperature")
	if !ok || !r.Valid {
		t.Fatal("coefficient undefined")
	}
	if math.Abs(r.Float64-1) > 1e-9 {
		t.Errorf("r = %v, want 1", r.Float64)
	}
	if len(pairs) != 1 || pairs[0].A != "apparent_temperature" || pairs[0].B != "temperature" {
		t.Errorf("pairs = %+v", pairs)
	}
}

func TestCorrelateNegative(t *testing.T) {
	tbl := statsTable(t,
		series.New([]float64{1, 2, 3, 4}, series.Float, "temperature"),
		series.New([]float64{8, 6, 4, 2}, series.Float, "humidity"),
	)
	m, _, err := Correlate(tbl, []string{"temperature", "humidity"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.At("temperature", "humidity")
	if math.Abs(r.Float64+1) > 1e-9 {
		t.Errorf("r = %v, want -1", r.Float64)
	}
}

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	tbl := statsTable(t,
		series.New([]float64{1, 3, 2, 5, 4}, series.Float, "a"),
		series.New([]float64{2, 1, 4, 3, 5}, series.Float, "b"),
		series.New([]float64{5, 5, 5, 5, 5}, series.Float, "c"),
	)
	m, _, err := Correlate(tbl, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Columns {
		if !m.Coeffs[i][i].Valid || m.Coeffs[i][i].Float64 != 1 {
			t.Errorf("diagonal [%d][%d] = %+v, want valid 1.0", i, i, m.Coeffs[i][i])
		}
		for j := range m.Columns {
			if m.Coeffs[i][j] != m.Coeffs[j][i] {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
	// c is constant: its off-diagonal cells are undefined, not zero.
	r, _ := m.At("a", "c")
	if r.Valid {
		t.Errorf("a/c = %+v, want undefined", r)
	}
}

func TestCorrelatePairwiseMissingRows(t *testing.T) {
	tbl := statsTable(t,
		series.New([]float64{1, 2, math.NaN(), 4, 5}, series.Float, "a"),
		series.New([]float64{2, 4, 6, 8, math.NaN()}, series.Float, "b"),
	)
	m, _, err := Correlate(tbl, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.At("a", "b")
	if !r.Valid {
		t.Fatal("coefficient undefined")
	}
	// Only rows 0, 1, 3 are complete and they are perfectly linear.
	if math.Abs(r.Float64-1) > 1e-9 {
		t.Errorf("r = %v, want 1", r.Float64)
	}
}

func TestCorrelateSingleUsableColumn(t *testing.T) {
	tbl := statsTable(t,
		series.New([]float64{1, 2, 3, 4}, series.Float, "a"),
		series.New([]float64{7, 7, 7, 7}, series.Float, "b"),
	)
	m, pairs, err := Correlate(tbl, []string{"a", "b"})
	if err != nil {
		t.Fatalf("one usable column should not fail: %v", err)
	}
	for i := range m.Columns {
		if !m.Coeffs[i][i].Valid || m.Coeffs[i][i].Float64 != 1 {
			t.Errorf("diagonal [%d][%d] = %+v, want valid 1.0", i, i, m.Coeffs[i][i])
		}
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}
	if pairs[0].R.Valid {
		t.Errorf("a/b = %+v, want undefined", pairs[0].R)
	}
}

func TestCorrelateInsufficientData(t *testing.T) {
	tests := []struct {
		name string
		cols []series.Series
	}{
		{
			name: "all constant",
			cols: []series.Series{
				series.New([]float64{1, 1, 1}, series.Float, "a"),
				series.New([]float64{2, 2, 2}, series.Float, "b"),
			},
		},
		{
			name: "all missing",
			cols: []series.Series{
				series.New([]float64{math.NaN(), math.NaN()}, series.Float, "a"),
				series.New([]float64{math.NaN(), math.NaN()}, series.Float, "b"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := statsTable(t, tt.cols...)
			_, _, err := Correlate(tbl, []string{"a", "b"})
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("err = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestCorrelatePairRanking(t *testing.T) {
	tbl := statsTable(t,
		series.New([]float64{1, 2, 3, 4, 5}, series.Float, "a"),
		series.New([]float64{2, 4, 6, 8, 10}, series.Float, "b"),
		series.New([]float64{5, 1, 4, 2, 3}, series.Float, "c"),
		series.New([]float64{9, 9, 9, 9, 9}, series.Float, "d"),
	)
	_, pairs, err := Correlate(tbl, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 6 {
		t.Fatalf("got %d pairs, want 6", len(pairs))
	}
	if pairs[0].A != "a" || pairs[0].B != "b" {
		t.Errorf("strongest pair = %s/%s, want a/b", pairs[0].A, pairs[0].B)
	}
	// Undefined pairs (those involving the constant column) rank last.
	for _, p := range pairs[len(pairs)-3:] {
		if p.R.Valid {
			t.Errorf("pair %s/%s should be undefined", p.A, p.B)
		}
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i].R.Valid && pairs[i-1].R.Valid &&
			math.Abs(pairs[i].R.Float64) > math.Abs(pairs[i-1].R.Float64)+1e-12 {
			t.Errorf("pairs out of order at %d", i)
		}
	}
}
