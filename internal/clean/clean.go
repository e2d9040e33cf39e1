// Package clean transforms a raw observation table into an analysis-ready
// one: canonical names, derived calendar fields, imputed missing values and
// capped outliers. The input table is never modified; cleaning the same
// table twice yields the same result.
package clean

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/lox/weatherscope/internal/dataset"
	"github.com/lox/weatherscope/internal/stats"
)

// outlierMultiplier is the IQR multiple for the capping bounds. 3, not the
// conventional 1.5, for parity with the historical cleaning of this dataset.
const outlierMultiplier = 3.0

// Warning reports a column that could not be cleaned as declared. Cleaning
// continues for all other columns.
type Warning struct {
	Column string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("column %s: %s", w.Column, w.Reason)
}

// Clean returns a cleaned copy of t. Steps run in fixed order: canonical
// renames, calendar derivation, missing-value imputation (median for
// continuous, mode for categorical), then per-column IQR capping. The row
// count is invariant: no step ever drops a row.
func Clean(t dataset.Table) (dataset.Table, []Warning, error) {
	if t.NumRows() == 0 {
		return dataset.Table{}, nil, fmt.Errorf("clean: empty table")
	}

	var warnings []Warning

	for _, name := range t.Columns() {
		if canonical, ok := dataset.Canonical(name); ok && string(canonical) != name {
			t = t.Rename(string(canonical), name)
		}
	}

	t = deriveCalendar(t)

	for _, col := range dataset.ContinuousColumns() {
		if !t.Has(string(col)) {
			warnings = append(warnings, Warning{Column: string(col), Reason: "declared column absent"})
		}
	}
	for _, col := range dataset.CategoricalColumns() {
		if !t.Has(string(col)) {
			warnings = append(warnings, Warning{Column: string(col), Reason: "declared column absent"})
		}
	}

	for _, name := range t.Columns() {
		if dataset.IsCalendar(name) {
			continue
		}
		var w []Warning
		switch columnKind(t, name) {
		case dataset.Continuous:
			t, w = imputeContinuous(t, name)
		case dataset.Categorical:
			t, w = imputeCategorical(t, name)
		}
		warnings = append(warnings, w...)
	}

	for _, name := range t.Columns() {
		if dataset.IsCalendar(name) || columnKind(t, name) != dataset.Continuous {
			continue
		}
		t = capOutliers(t, name)
	}

	for _, w := range warnings {
		log.Printf("clean: %s", w)
	}
	return t, warnings, nil
}

// columnKind resolves the semantic type of a column: declared columns use
// the schema, passthrough columns are inferred from their values.
func columnKind(t dataset.Table, name string) dataset.Kind {
	if k, ok := dataset.KindOf(dataset.Column(name)); ok {
		return k
	}
	if t.IsNumeric(name) {
		return dataset.Continuous
	}
	seen := false
	for _, v := range t.Strings(name) {
		if isMissing(v) {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return dataset.Categorical
		}
	}
	if seen {
		return dataset.Continuous
	}
	return dataset.Categorical
}

func deriveCalendar(t dataset.Table) dataset.Table {
	times := t.Times()
	n := len(times)
	years := make([]int, n)
	months := make([]int, n)
	days := make([]int, n)
	hours := make([]int, n)
	dows := make([]int, n)
	weeks := make([]int, n)
	seasons := make([]int, n)
	for i, ts := range times {
		years[i] = ts.Year()
		months[i] = int(ts.Month())
		days[i] = ts.Day()
		hours[i] = ts.Hour()
		dows[i] = (int(ts.Weekday()) + 6) % 7 // Monday = 0
		_, weeks[i] = ts.ISOWeek()
		seasons[i] = int(dataset.SeasonOf(ts.Month()))
	}
	t = t.WithInts(string(dataset.ColYear), years)
	t = t.WithInts(string(dataset.ColMonth), months)
	t = t.WithInts(string(dataset.ColDay), days)
	t = t.WithInts(string(dataset.ColHour), hours)
	t = t.WithInts(string(dataset.ColDayOfWeek), dows)
	t = t.WithInts(string(dataset.ColWeekOfYear), weeks)
	t = t.WithInts(string(dataset.ColSeason), seasons)
	return t
}

// imputeContinuous coerces the column to floats and fills missing entries
// with the column's own median. A column with no usable values at all stays
// missing and is reported, never dropped.
func imputeContinuous(t dataset.Table, name string) (dataset.Table, []Warning) {
	var vals []float64
	var warnings []Warning

	if t.IsNumeric(name) {
		vals = t.Floats(name)
	} else {
		raw := t.Strings(name)
		var parsed int
		vals, parsed = coerceFloats(raw)
		if parsed == 0 && countNonMissing(raw) > 0 {
			warnings = append(warnings, Warning{Column: name, Reason: "not coercible to numeric; treated as missing"})
			return t.WithFloats(name, vals), warnings
		}
	}

	median, ok := stats.Quantile(vals, 0.5)
	if !ok {
		warnings = append(warnings, Warning{Column: name, Reason: "all values missing; column left missing"})
		return t.WithFloats(name, vals), warnings
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = median
		}
	}
	return t.WithFloats(name, vals), warnings
}

// imputeCategorical fills missing entries with the column's mode, the
// lexically smallest value among the most frequent.
func imputeCategorical(t dataset.Table, name string) (dataset.Table, []Warning) {
	vals := t.Strings(name)
	mode, ok := modeString(vals)
	if !ok {
		return t, []Warning{{Column: name, Reason: "all values missing; column left missing"}}
	}
	changed := false
	for i, v := range vals {
		if isMissing(v) {
			vals[i] = mode
			changed = true
		}
	}
	if !changed {
		return t, nil
	}
	return t.WithStrings(name, vals), nil
}

// capOutliers clips the column to [Q1 - 3*IQR, Q3 + 3*IQR] computed from the
// column's current distribution. Values are capped, never removed.
func capOutliers(t dataset.Table, name string) dataset.Table {
	vals := t.Floats(name)
	q1, ok1 := stats.Quantile(vals, 0.25)
	q3, ok3 := stats.Quantile(vals, 0.75)
	if !ok1 || !ok3 {
		return t
	}
	iqr := q3 - q1
	lower := q1 - outlierMultiplier*iqr
	upper := q3 + outlierMultiplier*iqr

	changed := false
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if v < lower {
			vals[i] = lower
			changed = true
		} else if v > upper {
			vals[i] = upper
			changed = true
		}
	}
	if !changed {
		return t
	}
	return t.WithFloats(name, vals)
}

func modeString(vals []string) (string, bool) {
	counts := make(map[string]int)
	for _, v := range vals {
		if isMissing(v) {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return "", false
	}
	best := ""
	bestCount := 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best = v
			bestCount = c
		}
	}
	return best, true
}

// coerceFloats parses raw values to floats, NaN for missing or unparsable
// entries. Returns the parsed count so callers can tell a sparse column from
// a non-numeric one.
func coerceFloats(raw []string) ([]float64, int) {
	vals := make([]float64, len(raw))
	parsed := 0
	for i, v := range raw {
		if isMissing(v) {
			vals[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = f
		parsed++
	}
	return vals, parsed
}

func countNonMissing(raw []string) int {
	n := 0
	for _, v := range raw {
		if !isMissing(v) {
			n++
		}
	}
	return n
}

func isMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NA", "N/A", "NaN", "nan", "null", "NULL":
		return true
	}
	return false
}
