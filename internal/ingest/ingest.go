// Package ingest reads delimited or spreadsheet observation tables into a
// dataset.Table, remapping raw headers to canonical column names and parsing
// the timestamp column to UTC instants.
package ingest

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/lox/weatherscope/internal/dataset"
)

// DataLoadError reports a fatal ingestion failure: unreadable or empty
// source, or no parsable timestamp column. No partial table accompanies it.
type DataLoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Source, e.Reason)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// timestampLayouts are tried in order. The first entry matches the source
// weather history export; the rest cover common interchange formats.
// Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.000 -0700",
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Load reads an observation table from path, dispatching on the file
// extension (.csv, .tsv or .xlsx).
func Load(path string) (dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataset.Table{}, &DataLoadError{Source: path, Reason: "open source", Err: err}
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(f, path)
	case ".tsv":
		return ReadCSV(f, path, '\t')
	default:
		return ReadCSV(f, path, ',')
	}
}

// ReadCSV reads delimited tabular data from r. The source name is used only
// for error reporting.
func ReadCSV(r io.Reader, source string, delimiter rune) (dataset.Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delimiter),
	)
	if err := df.Error(); err != nil {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "read delimited data", Err: err}
	}
	return buildTable(df, source)
}

// buildTable remaps headers, parses the timestamp column and assembles the
// final table. Shared by the CSV and XLSX paths.
func buildTable(df dataframe.DataFrame, source string) (dataset.Table, error) {
	if df.Nrow() == 0 {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "empty dataset"}
	}

	for _, name := range df.Names() {
		canonical, ok := dataset.Canonical(name)
		if !ok || string(canonical) == name {
			continue
		}
		df = df.Rename(string(canonical), name)
	}

	if !hasColumn(df, string(dataset.ColDate)) {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "no timestamp column"}
	}

	raw := df.Col(string(dataset.ColDate)).Records()
	times := make([]time.Time, len(raw))
	for i, v := range raw {
		ts, err := parseTimestamp(v)
		if err != nil {
			return dataset.Table{}, &DataLoadError{
				Source: source,
				Reason: fmt.Sprintf("row %d: unparsable timestamp %q", i+1, v),
				Err:    err,
			}
		}
		times[i] = ts
	}
	df = df.Drop(string(dataset.ColDate))

	t, err := dataset.NewTable(df, times)
	if err != nil {
		return dataset.Table{}, &DataLoadError{Source: source, Reason: "assemble table", Err: err}
	}
	log.Printf("ingest: loaded %d rows, %d columns from %s", t.NumRows(), len(t.Columns()), source)
	return t, nil
}

// parseTimestamp parses a timestamp in any supported layout and coerces it
// to UTC, so mixed-offset sources compare and group consistently.
func parseTimestamp(v string) (time.Time, error) {
	s := strings.TrimSpace(v)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty value")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("no layout matches %q", s)
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
