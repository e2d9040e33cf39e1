// Package analysis orchestrates the pipeline: load a source, clean it, run
// the statistical stages and assemble the report. A Session caches cleaned
// tables by content fingerprint so repeated requests against an unchanged
// source skip the ingest and clean work.
package analysis

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lox/weatherscope/internal/aggregate"
	"github.com/lox/weatherscope/internal/clean"
	"github.com/lox/weatherscope/internal/dataset"
	"github.com/lox/weatherscope/internal/ingest"
	"github.com/lox/weatherscope/internal/report"
	"github.com/lox/weatherscope/internal/stats"
)

// Result is a cleaned table ready for analysis, keyed by the fingerprint of
// the source bytes it came from.
type Result struct {
	Table       dataset.Table
	Warnings    []clean.Warning
	Fingerprint string
}

// Session caches cleaned tables across calls. Safe for concurrent use; the
// cached tables themselves are immutable.
type Session struct {
	mu    sync.Mutex
	cache map[string]*Result
}

func NewSession() *Session {
	return &Session{cache: make(map[string]*Result)}
}

// Load reads, ingests and cleans the source at path. A source whose bytes
// match a previous load is served from cache; editing the file invalidates
// the entry because the fingerprint changes with the content.
func (s *Session) Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ingest.DataLoadError{Source: path, Reason: "read source", Err: err}
	}
	sum := md5.Sum(data)
	fp := hex.EncodeToString(sum[:])

	s.mu.Lock()
	cached := s.cache[fp]
	s.mu.Unlock()
	if cached != nil {
		log.Printf("analysis: cache hit for %s (%s)", path, fp)
		return cached, nil
	}

	var raw dataset.Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		raw, err = ingest.ReadXLSX(bytes.NewReader(data), path)
	case ".tsv":
		raw, err = ingest.ReadCSV(bytes.NewReader(data), path, '\t')
	default:
		raw, err = ingest.ReadCSV(bytes.NewReader(data), path, ',')
	}
	if err != nil {
		return nil, err
	}

	cleaned, warnings, err := clean.Clean(raw)
	if err != nil {
		return nil, fmt.Errorf("cleaning %s: %w", path, err)
	}

	res := &Result{Table: cleaned, Warnings: warnings, Fingerprint: fp}
	s.mu.Lock()
	s.cache[fp] = res
	s.mu.Unlock()
	return res, nil
}

// NumericColumns returns the declared continuous columns present in t, in
// schema order.
func NumericColumns(t dataset.Table) []string {
	var cols []string
	for _, c := range dataset.ContinuousColumns() {
		if t.Has(string(c)) && t.IsNumeric(string(c)) {
			cols = append(cols, string(c))
		}
	}
	return cols
}

// BuildReport runs the statistical stages over a cleaned table and assembles
// the summary. Pairs that cannot be correlated appear in the report marked
// undefined; only a table with no usable column at all yields a report
// without relationship entries.
func BuildReport(res *Result) (report.Summary, error) {
	t := res.Table
	numeric := NumericColumns(t)

	facts := buildFacts(t)
	records := stats.Describe(t, numeric, nil)

	var pairs []stats.Pair
	if len(numeric) >= 2 {
		_, p, err := stats.Correlate(t, numeric)
		if err != nil && !errors.Is(err, stats.ErrInsufficientData) {
			return report.Summary{}, err
		}
		pairs = p
	}

	in := report.Input{Facts: facts, Statistics: records, Pairs: pairs}
	temp := string(dataset.ColTemperature)
	if t.Has(temp) {
		if s, err := aggregate.BySeason(t, temp); err == nil {
			in.Seasonal = s
		}
		if s, err := aggregate.ByMonthOfYear(t, temp); err == nil {
			in.Monthly = s
		}
		if s, err := aggregate.HourlyProfile(t, temp); err == nil {
			in.Hourly = s
		}
	}
	return report.Assemble(in), nil
}

func buildFacts(t dataset.Table) report.Facts {
	f := report.Facts{Records: t.NumRows()}
	for _, name := range t.Columns() {
		if !dataset.IsCalendar(name) {
			f.Variables = append(f.Variables, name)
		}
	}
	for i, ts := range t.Times() {
		if i == 0 || ts.Before(f.Start) {
			f.Start = ts
		}
		if i == 0 || ts.After(f.End) {
			f.End = ts
		}
	}
	if counts := stats.ValueCounts(t, string(dataset.ColSummary)); len(counts) > 0 {
		f.TopSummary = counts[0].Value
		f.TopSummaryCount = counts[0].Count
	}
	return f
}
