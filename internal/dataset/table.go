package dataset

import (
	"fmt"
	"io"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an in-memory columnar view of weather observations: a dataframe
// of named columns plus one parsed timestamp per row, always in UTC.
//
// Tables are treated as immutable. Every With*/Rename/Drop constructor
// returns a new Table and leaves the receiver untouched, so a Table may be
// shared read-only between concurrent consumers.
type Table struct {
	df    dataframe.DataFrame
	times []time.Time
}

// NewTable wraps a dataframe and its parsed timestamps.
func NewTable(df dataframe.DataFrame, times []time.Time) (Table, error) {
	if err := df.Error(); err != nil {
		return Table{}, fmt.Errorf("dataframe: %w", err)
	}
	if len(times) != df.Nrow() {
		return Table{}, fmt.Errorf("timestamp count %d does not match row count %d", len(times), df.Nrow())
	}
	return Table{df: df, times: times}, nil
}

// FromSeries builds a Table from raw column series.
func FromSeries(times []time.Time, cols ...series.Series) (Table, error) {
	return NewTable(dataframe.New(cols...), times)
}

func (t Table) NumRows() int { return t.df.Nrow() }

// Columns returns the column names in dataframe order.
func (t Table) Columns() []string { return t.df.Names() }

func (t Table) Has(name string) bool {
	for _, n := range t.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the column is stored as a numeric series.
func (t Table) IsNumeric(name string) bool {
	if !t.Has(name) {
		return false
	}
	switch t.df.Col(name).Type() {
	case series.Float, series.Int:
		return true
	}
	return false
}

// Floats returns the column as float64 values with NaN marking missing
// entries. The returned slice is a copy. Returns nil if the column is
// absent.
func (t Table) Floats(name string) []float64 {
	if !t.Has(name) {
		return nil
	}
	return t.df.Col(name).Float()
}

// Strings returns the column as strings with "" marking missing entries.
// Returns nil if the column is absent.
func (t Table) Strings(name string) []string {
	if !t.Has(name) {
		return nil
	}
	col := t.df.Col(name)
	out := make([]string, col.Len())
	for i := 0; i < col.Len(); i++ {
		e := col.Elem(i)
		if e.IsNA() {
			continue
		}
		out[i] = e.String()
	}
	return out
}

// Times returns a copy of the per-row timestamps.
func (t Table) Times() []time.Time {
	out := make([]time.Time, len(t.times))
	copy(out, t.times)
	return out
}

// WithFloats returns a new Table with the named column set to vals.
func (t Table) WithFloats(name string, vals []float64) Table {
	return Table{df: t.df.Mutate(series.New(vals, series.Float, name)), times: t.times}
}

// WithInts returns a new Table with the named column set to vals.
func (t Table) WithInts(name string, vals []int) Table {
	return Table{df: t.df.Mutate(series.New(vals, series.Int, name)), times: t.times}
}

// WithStrings returns a new Table with the named column set to vals.
func (t Table) WithStrings(name string, vals []string) Table {
	return Table{df: t.df.Mutate(series.New(vals, series.String, name)), times: t.times}
}

// Rename returns a new Table with the column renamed.
func (t Table) Rename(newName, oldName string) Table {
	return Table{df: t.df.Rename(newName, oldName), times: t.times}
}

// Drop returns a new Table without the named column.
func (t Table) Drop(name string) Table {
	return Table{df: t.df.Drop(name), times: t.times}
}

// WriteCSV writes the table columns (without the timestamp) to w.
func (t Table) WriteCSV(w io.Writer) error {
	return t.df.WriteCSV(w)
}

// Records returns the table as string records, header row first. Used by
// spreadsheet export.
func (t Table) Records() [][]string {
	return t.df.Records()
}
