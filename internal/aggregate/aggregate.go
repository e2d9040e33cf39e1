// Package aggregate groups cleaned observations by time granularity or
// category and computes per-bucket means. Buckets with no observations are
// omitted, never emitted with a null mean.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/lox/weatherscope/internal/dataset"
)

// Granularity is the time bucket size for a mean series.
type Granularity int

const (
	Day Granularity = iota
	Week
	Month
	Year
)

func (g Granularity) String() string {
	switch g {
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	}
	return "unknown"
}

// ParseGranularity parses a granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch s {
	case "day":
		return Day, nil
	case "week":
		return Week, nil
	case "month":
		return Month, nil
	case "year":
		return Year, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Point is one aggregation bucket: its label, the mean of the target column
// and the number of observations that contributed.
type Point struct {
	Label string
	Mean  float64
	Count int
}

// Series is an ordered sequence of aggregation buckets for one column.
type Series struct {
	Column string
	Points []Point
}

type bucket struct {
	order int64
	label string
	sum   float64
	count int
}

// ByGranularity computes the per-bucket mean of col at the requested time
// granularity, ordered chronologically. Labels are "2006-01-02" for day,
// "{year}-W{week:02d}" for ISO week, "{year}-{month:02d}" for month and
// "{year}" for year.
func ByGranularity(t dataset.Table, col string, g Granularity) (Series, error) {
	vals := t.Floats(col)
	if vals == nil {
		return Series{}, fmt.Errorf("aggregate: no column %q", col)
	}
	times := t.Times()

	buckets := make(map[int64]*bucket)
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		ts := times[i]
		var order int64
		var label string
		switch g {
		case Day:
			order = int64(ts.Year())*10000 + int64(ts.Month())*100 + int64(ts.Day())
			label = ts.Format("2006-01-02")
		case Week:
			isoYear, isoWeek := ts.ISOWeek()
			order = int64(isoYear)*100 + int64(isoWeek)
			label = fmt.Sprintf("%d-W%02d", isoYear, isoWeek)
		case Month:
			order = int64(ts.Year())*100 + int64(ts.Month())
			label = fmt.Sprintf("%d-%02d", ts.Year(), int(ts.Month()))
		case Year:
			order = int64(ts.Year())
			label = strconv.Itoa(ts.Year())
		}
		accumulate(buckets, order, label, v)
	}
	return toSeries(col, buckets), nil
}

// HourlyProfile computes the mean of col grouped by hour of day (0-23),
// independent of date. Hours absent from the data are omitted.
func HourlyProfile(t dataset.Table, col string) (Series, error) {
	vals := t.Floats(col)
	if vals == nil {
		return Series{}, fmt.Errorf("aggregate: no column %q", col)
	}
	times := t.Times()

	buckets := make(map[int64]*bucket)
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		h := times[i].Hour()
		accumulate(buckets, int64(h), strconv.Itoa(h), v)
	}
	return toSeries(col, buckets), nil
}

// ByMonthOfYear computes the mean of col per calendar month (1-12) across
// all years, the monthly climatology.
func ByMonthOfYear(t dataset.Table, col string) (Series, error) {
	vals := t.Floats(col)
	if vals == nil {
		return Series{}, fmt.Errorf("aggregate: no column %q", col)
	}
	times := t.Times()

	buckets := make(map[int64]*bucket)
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		m := int(times[i].Month())
		accumulate(buckets, int64(m), strconv.Itoa(m), v)
	}
	return toSeries(col, buckets), nil
}

// BySeason computes the mean of col per season, ordered Winter through Fall.
func BySeason(t dataset.Table, col string) (Series, error) {
	vals := t.Floats(col)
	if vals == nil {
		return Series{}, fmt.Errorf("aggregate: no column %q", col)
	}
	times := t.Times()

	buckets := make(map[int64]*bucket)
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		s := dataset.SeasonOf(times[i].Month())
		accumulate(buckets, int64(s), s.String(), v)
	}
	return toSeries(col, buckets), nil
}

// ByCategory computes the mean of col per value of a categorical column,
// ordered lexically by category. Rows missing the category are skipped.
func ByCategory(t dataset.Table, catCol, col string) (Series, error) {
	vals := t.Floats(col)
	if vals == nil {
		return Series{}, fmt.Errorf("aggregate: no column %q", col)
	}
	cats := t.Strings(catCol)
	if cats == nil {
		return Series{}, fmt.Errorf("aggregate: no column %q", catCol)
	}

	sums := make(map[string]*bucket)
	for i, v := range vals {
		if math.IsNaN(v) || cats[i] == "" {
			continue
		}
		b := sums[cats[i]]
		if b == nil {
			b = &bucket{label: cats[i]}
			sums[cats[i]] = b
		}
		b.sum += v
		b.count++
	}

	labels := make([]string, 0, len(sums))
	for l := range sums {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	s := Series{Column: col, Points: make([]Point, 0, len(labels))}
	for _, l := range labels {
		b := sums[l]
		s.Points = append(s.Points, Point{Label: l, Mean: b.sum / float64(b.count), Count: b.count})
	}
	return s, nil
}

func accumulate(buckets map[int64]*bucket, order int64, label string, v float64) {
	b := buckets[order]
	if b == nil {
		b = &bucket{order: order, label: label}
		buckets[order] = b
	}
	b.sum += v
	b.count++
}

func toSeries(col string, buckets map[int64]*bucket) Series {
	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	s := Series{Column: col, Points: make([]Point, 0, len(ordered))}
	for _, b := range ordered {
		s.Points = append(s.Points, Point{Label: b.label, Mean: b.sum / float64(b.count), Count: b.count})
	}
	return s
}
