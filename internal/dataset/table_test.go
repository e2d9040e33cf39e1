package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/go-gota/gota/series"
)

func testTimes(n int) []time.Time {
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * time.Hour)
	}
	return out
}

func TestNewTableRowMismatch(t *testing.T) {
	_, err := FromSeries(testTimes(2), series.New([]float64{1, 2, 3}, series.Float, "temperature"))
	if err == nil {
		t.Fatal("expected error for mismatched timestamp count")
	}
}

func TestFloatsMissingAsNaN(t *testing.T) {
	tbl, err := FromSeries(testTimes(3), series.New([]string{"1.5", "", "3.0"}, series.String, "temperature"))
	if err != nil {
		t.Fatal(err)
	}
	vals := tbl.Floats("temperature")
	if vals[0] != 1.5 || vals[2] != 3.0 {
		t.Errorf("Floats = %v", vals)
	}
	if !math.IsNaN(vals[1]) {
		t.Errorf("missing entry = %v, want NaN", vals[1])
	}
	if tbl.Floats("absent") != nil {
		t.Error("Floats on absent column should be nil")
	}
}

func TestWithFloatsLeavesReceiverUntouched(t *testing.T) {
	tbl, err := FromSeries(testTimes(2), series.New([]float64{1, 2}, series.Float, "temperature"))
	if err != nil {
		t.Fatal(err)
	}
	modified := tbl.WithFloats("temperature", []float64{10, 20})
	if got := tbl.Floats("temperature"); got[0] != 1 || got[1] != 2 {
		t.Errorf("original mutated: %v", got)
	}
	if got := modified.Floats("temperature"); got[0] != 10 || got[1] != 20 {
		t.Errorf("modified = %v", got)
	}
}

func TestRenameAndDrop(t *testing.T) {
	tbl, err := FromSeries(testTimes(2),
		series.New([]float64{1, 2}, series.Float, "a"),
		series.New([]float64{3, 4}, series.Float, "b"),
	)
	if err != nil {
		t.Fatal(err)
	}
	renamed := tbl.Rename("c", "a")
	if !renamed.Has("c") || renamed.Has("a") {
		t.Errorf("rename left columns %v", renamed.Columns())
	}
	if !tbl.Has("a") {
		t.Error("rename mutated the original")
	}
	dropped := tbl.Drop("b")
	if dropped.Has("b") || !tbl.Has("b") {
		t.Error("drop did not behave copy-on-write")
	}
}

func TestTimesReturnsCopy(t *testing.T) {
	tbl, err := FromSeries(testTimes(2), series.New([]float64{1, 2}, series.Float, "a"))
	if err != nil {
		t.Fatal(err)
	}
	ts := tbl.Times()
	ts[0] = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	if tbl.Times()[0].Year() == 1999 {
		t.Error("Times exposed internal slice")
	}
}
