package stats

import (
	"sort"

	"github.com/lox/weatherscope/internal/dataset"
)

// ValueCount is one categorical value and its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts tallies the non-missing values of a categorical column,
// ordered by descending count with lexical tie-break.
func ValueCounts(t dataset.Table, col string) []ValueCount {
	counts := make(map[string]int)
	for _, v := range t.Strings(col) {
		if v == "" {
			continue
		}
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
